package console

import (
	"github.com/carina-io/nasconsole/pkg/menu"
)

// tables every mode of the console, main first
func (c *Console) tables() []*menu.Table {
	return []*menu.Table{
		{
			Mode:  menu.ModeMain,
			Title: "NAS console",
			Commands: []*menu.Command{
				{Verb: string(menu.ModeDisk), Enter: menu.ModeDisk, Summary: "Disk inventory"},
				{Verb: string(menu.ModePool), Enter: menu.ModePool, Summary: "Storage pools"},
				{Verb: string(menu.ModeHardware), Enter: menu.ModeHardware, Summary: "CPU and memory"},
				{Verb: string(menu.ModeNetwork), Enter: menu.ModeNetwork, Summary: "Interfaces and routing"},
				{Verb: string(menu.ModeService), Enter: menu.ModeService, Summary: "Service control"},
				{Verb: string(menu.ModeSystem), Enter: menu.ModeSystem, Summary: "Password, power, time"},
			},
		},
		c.diskTable(),
		c.poolTable(),
		c.hardwareTable(),
		c.networkTable(),
		c.serviceTable(),
		c.systemTable(),
	}
}
