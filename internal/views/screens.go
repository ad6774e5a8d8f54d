package views

import (
	"fmt"
	"math"
	"strings"
)

type EntryData struct {
	ID        string
	Date      string
	Time      string
	EndTime   string
	Title     string
	Important bool
	Done      bool
	Imported  bool
	Recurring bool
	Selected  bool
	Moving    bool
	// Top and Height are in grid rows.
	Top    float64
	Height float64
}

type TimelineData struct {
	Date         string
	Label        string
	IsToday      bool
	Entries      []EntryData
	Done         int
	Total        int
	Percent      int
	ProgressView string
}

type GridData struct {
	Date        string
	Label       string
	RowsPerHour int
	StartHour   int
	EndHour     int
	Entries     []EntryData
	NowRow      float64
	ShowNow     bool
}

type WeekColumnData struct {
	Date     string
	Label    string
	IsToday  bool
	Selected bool
	Target   bool
	Entries  []EntryData
}

type WeekData struct {
	Start   string
	Columns []WeekColumnData
}

type TaskGroupData struct {
	Date    string
	Label   string
	Overdue bool
	Items   []EntryData
}

type TasksData struct {
	Groups []TaskGroupData
}

type GoalData struct {
	ID       string
	Title    string
	Selected bool
}

type MonthData struct {
	Name    string
	Current bool
	Goals   []GoalData
}

type PlannerData struct {
	Months    []MonthData
	Adding    bool
	InputView string
	Upcoming  []EntryData
}

type QuickAddData struct {
	Active    bool
	InputView string
	Preview   []string
	Chips     []string
	ChipIndex int
	ErrorText string
}

type RecurrenceEditorData struct {
	Active       bool
	EventTitle   string
	RuleType     string
	IntervalText string
	EndDate      string
	Field        string
	ErrorText    string
	Preview      []string
}

type MoveData struct {
	Active bool
	Title  string
	From   string
	Target string
	Hint   string
}

type DetailData struct {
	Title      string
	When       string
	Recurrence string
	NoteView   string
	Imported   bool
	Done       bool
	Important  bool
}

type StatsData struct {
	Date         string
	Done         int
	Total        int
	Percent      int
	ProgressView string
	BusyMinutes  int
	Important    int
	Overdue      int
	Open         int
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTimeline(data TimelineData) string {
	var b strings.Builder
	title := data.Label
	if data.IsToday {
		title = todayStyle.Render(title + " (today)")
	}
	b.WriteString(title + "\n")
	if data.Total > 0 {
		b.WriteString(fmt.Sprintf("%s %d/%d done (%d%%)\n", data.ProgressView, data.Done, data.Total, data.Percent))
	}
	b.WriteString("\n")
	if len(data.Entries) == 0 {
		b.WriteString(mutedStyle.Render("nothing scheduled - press a to add"))
		return b.String()
	}
	for _, e := range data.Entries {
		b.WriteString(renderEntryLine(e) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderGrid(data GridData) string {
	rowsPerHour := max(data.RowsPerHour, 1)
	first := data.StartHour * rowsPerHour
	last := data.EndHour * rowsPerHour

	var b strings.Builder
	b.WriteString(data.Label + "\n")
	nowRow := -1
	if data.ShowNow {
		nowRow = int(math.Floor(data.NowRow))
	}
	for row := first; row < last; row++ {
		label := "     "
		if row%rowsPerHour == 0 {
			label = fmt.Sprintf("%02d:00", row/rowsPerHour)
		}
		var cells []string
		for _, e := range data.Entries {
			top := int(math.Floor(e.Top))
			bottom := int(math.Ceil(e.Top+e.Height)) - 1
			if row < top || row > bottom {
				continue
			}
			cell := "|"
			if row == top {
				cell = "| " + entryText(e)
			}
			cells = append(cells, styleEntry(e, cell))
		}
		line := label + " " + strings.Join(cells, "  ")
		if row == nowRow {
			line = label + " " + nowStyle.Render("-- now --") + " " + strings.Join(cells, "  ")
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderWeek(data WeekData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("week of %s\n", data.Start))
	for _, col := range data.Columns {
		heading := col.Label
		if col.IsToday {
			heading = todayStyle.Render(heading)
		}
		marker := " "
		switch {
		case col.Target:
			marker = "*"
		case col.Selected:
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("\n%s %s\n", marker, heading))
		if len(col.Entries) == 0 {
			b.WriteString(mutedStyle.Render("    -") + "\n")
			continue
		}
		for _, e := range col.Entries {
			b.WriteString("  " + renderEntryLine(e) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderTasks(data TasksData) string {
	var b strings.Builder
	b.WriteString("unfinished\n")
	if len(data.Groups) == 0 {
		b.WriteString(mutedStyle.Render("\nall caught up"))
		return b.String()
	}
	for _, g := range data.Groups {
		heading := g.Label
		if g.Overdue {
			heading = errorStyle.Render(heading + " (overdue)")
		}
		b.WriteString("\n" + heading + "\n")
		for _, e := range g.Items {
			b.WriteString(renderEntryLine(e) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderPlanner(data PlannerData) string {
	var b strings.Builder
	b.WriteString("monthly goals\n")
	if data.Adding {
		b.WriteString(data.InputView + "\n")
	}
	for _, m := range data.Months {
		heading := m.Name
		if m.Current {
			heading = todayStyle.Render(heading)
		}
		b.WriteString("\n" + heading + "\n")
		if len(m.Goals) == 0 {
			b.WriteString(mutedStyle.Render("  (no goals)") + "\n")
			continue
		}
		for _, g := range m.Goals {
			line := "  - " + g.Title
			if g.Selected {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	if len(data.Upcoming) > 0 {
		b.WriteString("\nupcoming\n")
		for _, e := range data.Upcoming {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", e.Date, e.Time, e.Title))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderQuickAdd(data QuickAddData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("quick add\n")
	b.WriteString(data.InputView + "\n")
	if len(data.Chips) > 0 {
		chips := make([]string, 0, len(data.Chips))
		for i, c := range data.Chips {
			if i == data.ChipIndex {
				c = selectedStyle.Render(c)
			}
			chips = append(chips, c)
		}
		b.WriteString("time: " + strings.Join(chips, " ") + "\n")
	}
	for _, p := range data.Preview {
		b.WriteString(mutedStyle.Render("  "+p) + "\n")
	}
	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
	}
	b.WriteString(mutedStyle.Render("[enter] save [tab] time chip [esc] cancel"))
	return b.String()
}

func RenderRecurrenceEditor(data RecurrenceEditorData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("repeat: " + data.EventTitle + "\n")
	b.WriteString("keys: [tab] type [up/down] field [enter] save [esc] close\n")
	b.WriteString(fieldLine("type", data.RuleType, data.Field == "type"))
	b.WriteString(fieldLine("every", data.IntervalText, data.Field == "interval"))
	end := data.EndDate
	if end == "" {
		end = "(never)"
	}
	b.WriteString(fieldLine("until", end, data.Field == "end"))
	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
	}
	if len(data.Preview) > 0 {
		b.WriteString("next:\n")
		for _, item := range data.Preview {
			b.WriteString("- " + item + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func fieldLine(name, value string, active bool) string {
	line := fmt.Sprintf("%-6s %s", name+":", value)
	if active {
		line = selectedStyle.Render(line)
	}
	return line + "\n"
}

func RenderMove(data MoveData) string {
	if !data.Active {
		return ""
	}
	return fmt.Sprintf("moving: %s\nfrom: %s\nto: %s\n%s", data.Title, data.From, data.Target, mutedStyle.Render(data.Hint))
}

func RenderDetail(data DetailData) string {
	if data.Title == "" {
		return mutedStyle.Render("(no selection)")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	b.WriteString(data.When + "\n")
	if data.Recurrence != "" {
		b.WriteString("repeats " + data.Recurrence + "\n")
	}
	var flags []string
	if data.Imported {
		flags = append(flags, importedStyle.Render("calendar"))
	}
	if data.Important {
		flags = append(flags, importantStyle.Render("important"))
	}
	if data.Done {
		flags = append(flags, "done")
	}
	if len(flags) > 0 {
		b.WriteString(strings.Join(flags, " ") + "\n")
	}
	if data.NoteView != "" {
		b.WriteString("\n" + data.NoteView)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderStats(data StatsData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Date) + "\n")
	if data.Total > 0 {
		b.WriteString(fmt.Sprintf("%s %d/%d done (%d%%)\n", data.ProgressView, data.Done, data.Total, data.Percent))
	}
	b.WriteString(fmt.Sprintf("busy: %dh%02dm\n", data.BusyMinutes/60, data.BusyMinutes%60))
	if data.Important > 0 {
		b.WriteString(importantStyle.Render(fmt.Sprintf("%d important open", data.Important)) + "\n")
	}
	b.WriteString(fmt.Sprintf("unfinished: %d", data.Open))
	if data.Overdue > 0 {
		b.WriteString(" " + errorStyle.Render(fmt.Sprintf("(%d overdue)", data.Overdue)))
	}
	return b.String()
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderEntryLine(e EntryData) string {
	box := "[ ]"
	switch {
	case e.Imported:
		box = " ~ "
	case e.Done:
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s", box, entryText(e))
	if e.Moving {
		line += " <- moving"
	}
	line = styleEntry(e, line)
	if e.Selected {
		line = selectedStyle.Render(line)
	}
	return line
}

func entryText(e EntryData) string {
	when := e.Time
	if e.EndTime != "" {
		when += "-" + e.EndTime
	}
	text := when + " " + e.Title
	if e.Important {
		text += " !"
	}
	if e.Recurring {
		text += " (r)"
	}
	return text
}

func styleEntry(e EntryData, s string) string {
	switch {
	case e.Imported:
		return importedStyle.Render(s)
	case e.Done:
		return doneStyle.Render(s)
	case e.Important:
		return importantStyle.Render(s)
	default:
		return s
	}
}
