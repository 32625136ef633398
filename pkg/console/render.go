package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/carina-io/nasconsole/pkg/menu"
)

const clearScreen = "\033[H\033[2J"

var (
	primaryColor = lipgloss.Color("#7571f9")
	mutedColor   = lipgloss.Color("#6c757d")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

func renderHelp(w io.Writer, t *menu.Table) {
	title := t.Title
	if title == "" {
		title = string(t.Mode) + " menu"
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w)

	var lines [][2]string
	for _, c := range t.Commands {
		lines = append(lines, [2]string{c.UsageLine(), c.Summary})
	}
	if t.Mode != menu.ModeMain {
		lines = append(lines, [2]string{menu.VerbBack, "Return to the main menu"})
	}
	lines = append(lines,
		[2]string{menu.VerbHelp, "Show this help"},
		[2]string{menu.VerbClear, "Clear the screen"},
		[2]string{menu.VerbExit, "Leave the console"},
	)

	width := 0
	for _, l := range lines {
		if len(l[0]) > width {
			width = len(l[0])
		}
	}
	for _, l := range lines {
		fmt.Fprintf(w, "  %-*s  %s\n", width, l[0], mutedStyle.Render(l[1]))
	}
	fmt.Fprintln(w)
}

func formatSize(bytes uint64) string {
	if bytes == 0 {
		return ""
	}
	return humanize.IBytes(bytes)
}

func formatTemperature(t *int) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%d°C", *t)
}
