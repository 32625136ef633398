package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/carina-io/nasconsole/pkg/menu"
)

var errNoProcfs = errors.New("procfs is not available on this host")

func (c *Console) hardwareTable() *menu.Table {
	return &menu.Table{
		Mode:  menu.ModeHardware,
		Title: "Hardware menu",
		Commands: []*menu.Command{
			{
				Verb:    "show",
				Summary: "Processor and memory details",
				Subs: []*menu.Command{
					{Verb: "cpu", Run: c.showCPU},
					{Verb: "memory", Run: c.showMemory},
				},
			},
		},
	}
}

func (c *Console) showCPU(_ context.Context, _ menu.Invocation) error {
	if c.hardware == nil {
		return errNoProcfs
	}
	cpu, err := c.hardware.CPU()
	if err != nil {
		return err
	}
	rows := [][]string{
		{"Model", cpu.ModelName},
		{"Vendor", cpu.Vendor},
		{"Sockets", strconv.Itoa(cpu.Sockets)},
		{"Cores", strconv.Itoa(cpu.Cores)},
		{"Threads", strconv.Itoa(cpu.Threads)},
		{"Clock", fmt.Sprintf("%.0f MHz", cpu.MHz)},
		{"Cache", cpu.CacheSize},
	}
	c.println(titleStyle.Render("Processor"))
	c.println(renderTable([]string{"FIELD", "VALUE"}, rows))
	return nil
}

func (c *Console) showMemory(_ context.Context, _ menu.Invocation) error {
	if c.hardware == nil {
		return errNoProcfs
	}
	m, err := c.hardware.Memory()
	if err != nil {
		return err
	}
	rows := [][]string{
		{"Memory", humanize.IBytes(m.Total), humanize.IBytes(m.Used()), humanize.IBytes(m.Available)},
		{"Swap", humanize.IBytes(m.SwapTotal), humanize.IBytes(m.SwapUsed()), humanize.IBytes(m.SwapFree)},
	}
	c.println(titleStyle.Render("Memory"))
	c.println(renderTable([]string{"", "TOTAL", "USED", "AVAILABLE"}, rows))
	c.printf("Buffers %s, cached %s\n", humanize.IBytes(m.Buffers), humanize.IBytes(m.Cached))
	return nil
}
