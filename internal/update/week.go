package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
	"github.com/sandeepkv93/timetable/internal/views"
)

const daysPerWeek = 7

func (m Model) handleWeekKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "left", "h":
		if m.WeekCursor > 0 {
			m.WeekCursor--
			return m
		}
		if m.shiftWeek(-1) {
			m.WeekCursor = daysPerWeek - 1
		}
	case "right", "l":
		if m.WeekCursor < daysPerWeek-1 {
			m.WeekCursor++
			return m
		}
		if m.shiftWeek(1) {
			m.WeekCursor = 0
		}
	case "[":
		m.shiftWeek(-1)
	case "]":
		m.shiftWeek(1)
	case "enter":
		if err := m.store.SelectDate(m.ctx, m.weekColumnDate()); err != nil {
			m.setError(err)
			return m
		}
		return m.switchView(ViewTimeline)
	}
	return m
}

// shiftWeek moves the visible week; it reports false when the store refused.
func (m *Model) shiftWeek(weeks int) bool {
	if _, err := m.store.ShiftWeek(m.ctx, weeks); err != nil {
		m.setError(err)
		return false
	}
	return true
}

// focusWeekOn shows the week containing date with the cursor on its column.
func (m Model) focusWeekOn(date string) Model {
	start, err := m.store.SetWeekStart(m.ctx, date)
	if err != nil {
		m.setError(err)
		return m
	}
	days, err := model.DaysBetween(start, date)
	if err != nil {
		days = 0
	}
	m.WeekCursor = clamp(days, 0, daysPerWeek-1)
	return m
}

func (m Model) weekColumnDate() string {
	date, err := model.AddDays(m.store.WeekStart(), m.WeekCursor)
	if err != nil {
		return m.store.SelectedDate()
	}
	return date
}

func (m Model) renderWeekView() string {
	start := m.store.WeekStart()
	cols, err := scheduler.WeekColumns(m.store, start, m.planOptions())
	if err != nil {
		return "week unavailable: " + err.Error()
	}
	today := m.store.Today()
	data := views.WeekData{Start: start}
	for i, col := range cols {
		column := views.WeekColumnData{
			Date:     col.Date,
			Label:    dateLabel(col.Date),
			IsToday:  col.Date == today,
			Selected: i == m.WeekCursor,
			Target:   m.Move.Active && m.Move.Target == col.Date,
		}
		for _, e := range col.Entries {
			column.Entries = append(column.Entries, m.toEntryData(e, false))
		}
		data.Columns = append(data.Columns, column)
	}
	return views.RenderWeek(data)
}
