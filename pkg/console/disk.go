package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/carina-io/nasconsole/pkg/devicemanager/device"
	"github.com/carina-io/nasconsole/pkg/devicemanager/types"
	"github.com/carina-io/nasconsole/pkg/menu"
)

func (c *Console) diskTable() *menu.Table {
	tools := []string{device.LsblkCmd}
	return &menu.Table{
		Mode:  menu.ModeDisk,
		Title: "Disk menu",
		Commands: []*menu.Command{
			{Verb: "all", Summary: "List all data disks", Tools: tools, Run: c.diskAll},
			{Verb: "unused", Summary: "List disks without partitions", Tools: tools, Run: c.diskUnused},
			{Verb: "info", Summary: "Show hardware path, model and temperature", Tools: tools, Run: c.diskInfo},
		},
	}
}

func (c *Console) diskAll(_ context.Context, _ menu.Invocation) error {
	disks, err := c.inventory.AllDisks()
	if err != nil {
		return err
	}
	if len(disks) == 0 {
		c.println("No data disks found.")
		return nil
	}
	rows := make([][]string, 0, len(disks))
	for _, d := range disks {
		rows = append(rows, []string{d.Name, d.BusLocation, d.WWN, formatSize(d.Size), string(d.Role)})
	}
	c.println(titleStyle.Render("All data disks"))
	c.println(renderTable([]string{"DEVICE", "BUS", "WWN", "SIZE", "ROLE"}, rows))
	return nil
}

func (c *Console) diskUnused(_ context.Context, _ menu.Invocation) error {
	disks, err := c.inventory.UnusedDisks()
	if err != nil {
		return err
	}
	if len(disks) == 0 {
		c.println("No unused disks found.")
		return nil
	}
	rows := make([][]string, 0, len(disks))
	for _, d := range disks {
		rows = append(rows, []string{d.Name, formatSize(d.Size), d.Model})
	}
	c.println(titleStyle.Render("Unused disks"))
	c.println(renderTable([]string{"DEVICE", "SIZE", "MODEL"}, rows))
	return nil
}

func (c *Console) diskInfo(_ context.Context, _ menu.Invocation) error {
	disks, err := c.inventory.DiskDetails()
	if err != nil {
		return err
	}
	if len(disks) == 0 {
		c.println("No data disks found.")
		return nil
	}
	c.println(titleStyle.Render("Disk details"))
	headers := []string{"DEVICE", "H/W PATH", "BUS", "MODEL", "SERIAL", "SIZE", "TEMP"}
	withParts := false
	for _, d := range disks {
		if len(d.Partitions) > 0 {
			withParts = true
			break
		}
	}
	if withParts {
		headers = append(headers, "PARTITIONS")
	}
	c.println(renderTable(headers, detailRows(disks, withParts)))
	return nil
}

func detailRows(disks []*types.DiskRecord, withParts bool) [][]string {
	rows := make([][]string, 0, len(disks))
	for _, d := range disks {
		row := []string{d.Name, d.HardwarePath, d.BusLocation, d.Model, d.Serial, formatSize(d.Size), formatTemperature(d.Temperature)}
		if withParts {
			row = append(row, formatPartitions(d.Partitions))
		}
		rows = append(rows, row)
	}
	return rows
}

// formatPartitions renders "sdb1 /srv 45%, sdb2"
func formatPartitions(parts []*types.PartitionRecord) string {
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		fields := []string{p.Name}
		if p.MountPoint != "" {
			fields = append(fields, p.MountPoint)
		}
		if pct := p.UsagePercent(); pct >= 0 {
			fields = append(fields, fmt.Sprintf("%d%%", pct))
		}
		items = append(items, strings.Join(fields, " "))
	}
	return strings.Join(items, ", ")
}
