package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c"))
	styleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
	styleBlue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#83a598"))
)

// renderTable pads columns to their widest visible cell.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	const colGap = 2
	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return styleHeader.Render(s) })
	for i, w := range widths {
		b.WriteString(styleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

func entryState(e scheduler.Entry) string {
	switch {
	case e.Imported:
		return styleBlue.Render("calendar")
	case e.Done:
		return styleGreen.Render("done")
	default:
		return "open"
	}
}

func entryWhen(inst model.Instance) string {
	if inst.EndTime == "" {
		return inst.Time
	}
	return inst.Time + "-" + inst.EndTime
}

func entryTitle(inst model.Instance) string {
	title := inst.Title
	if inst.Important {
		title = styleYellow.Render(title + " !")
	}
	if inst.IsRecurring() {
		title += styleDim.Render(" (" + string(inst.Recurrence.Type) + ")")
	}
	return title
}

func formatDay(date string, entries []scheduler.Entry) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(dayHeading(date)) + "\n")
	if len(entries) == 0 {
		b.WriteString(styleDim.Render("nothing scheduled") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Instance.ID, entryWhen(e.Instance), entryTitle(e.Instance), entryState(e)})
	}
	b.WriteString(renderTable([]string{"ID", "TIME", "TITLE", "STATE"}, rows))
	if done, total, percent := scheduler.Progress(entries); total > 0 {
		b.WriteString(styleDim.Render(fmt.Sprintf("%d/%d done (%d%%)", done, total, percent)) + "\n")
	}
	return b.String()
}

func dayHeading(date string) string {
	t, err := model.ParseDateKey(date)
	if err != nil {
		return date
	}
	return t.Format("Monday 2 January 2006")
}
