package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
	"github.com/sandeepkv93/timetable/internal/views"
)

const (
	gridStartHour = 7
	gridEndHour   = 22
)

var errReadOnly = errors.New("calendar events are read-only")

func (m Model) handleDayKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.dayEntries())-1 {
			m.Cursor++
		}
	case "left", "h":
		return m.shiftDay(-1)
	case "right", "l":
		return m.shiftDay(1)
	case " ", "x":
		return m.toggleSelectedDone()
	case "!":
		entry, ok := m.selectedEntry()
		if !ok {
			return m
		}
		if entry.Imported {
			m.setError(errReadOnly)
			return m
		}
		important, err := m.store.ToggleImportant(m.ctx, entry.Instance.ID)
		if err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("important: %v", important)}
	case "d", "delete":
		entry, ok := m.selectedEntry()
		if !ok {
			return m
		}
		if entry.Imported {
			m.setError(errReadOnly)
			return m
		}
		if err := m.store.Remove(m.ctx, entry.Instance.ID); err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", entry.Instance.Title)}
		m.clampCursor()
	case "e":
		entry, ok := m.selectedEntry()
		if !ok {
			return m
		}
		if entry.Imported {
			m.setError(errReadOnly)
			return m
		}
		return m.openEdit(entry.Instance.Event)
	case "r":
		entry, ok := m.selectedEntry()
		if !ok {
			return m
		}
		if entry.Imported {
			m.setError(errReadOnly)
			return m
		}
		return m.openRecurrenceEditor(entry.Instance.Event)
	case "m":
		entry, ok := m.selectedEntry()
		if !ok {
			return m
		}
		if entry.Imported {
			m.setError(errReadOnly)
			return m
		}
		return m.beginMove(entry.Instance)
	}
	return m
}

func (m Model) shiftDay(days int) Model {
	if _, err := m.store.ShiftDate(m.ctx, days); err != nil {
		m.setError(err)
		return m
	}
	m.Cursor = 0
	return m
}

func (m Model) toggleSelectedDone() Model {
	entry, ok := m.selectedEntry()
	if !ok {
		return m
	}
	if entry.Imported {
		m.setError(errReadOnly)
		return m
	}
	done, err := m.store.ToggleDone(m.ctx, entry.Instance.ID, entry.Instance.InstanceDate)
	if err != nil {
		m.setError(err)
		return m
	}
	state := "open"
	if done {
		state = "done"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", entry.Instance.Title, state)}
	return m
}

func (m Model) dayEntries() []scheduler.Entry {
	return scheduler.DayPlan(m.store, m.store.SelectedDate(), m.planOptions())
}

func (m Model) selectedEntry() (scheduler.Entry, bool) {
	entries := m.dayEntries()
	if m.Cursor < 0 || m.Cursor >= len(entries) {
		return scheduler.Entry{}, false
	}
	return entries[m.Cursor], true
}

func (m *Model) clampCursor() {
	switch m.CurrentView {
	case ViewTimeline, ViewGrid:
		m.Cursor = clamp(m.Cursor, 0, len(m.dayEntries())-1)
	case ViewTasks:
		m.Cursor = clamp(m.Cursor, 0, len(m.taskItems())-1)
	case ViewPlanner:
		m.Planner.Cursor = clamp(m.Planner.Cursor, 0, len(m.plannerGoals())-1)
	}
}

func (m Model) toEntryData(e scheduler.Entry, selected bool) views.EntryData {
	inst := e.Instance
	out := views.EntryData{
		ID:        inst.ID,
		Date:      inst.InstanceDate,
		Time:      inst.Time,
		EndTime:   inst.EndTime,
		Title:     inst.Title,
		Important: inst.Important,
		Done:      e.Done,
		Imported:  e.Imported,
		Recurring: inst.IsRecurring(),
		Selected:  selected,
		Moving:    m.Move.Active && m.Move.EventID == inst.ID,
	}
	if e.Geometry != nil {
		out.Top = e.Geometry.Top
		out.Height = e.Geometry.Height
	}
	return out
}

func (m Model) renderTimelineView() string {
	date := m.store.SelectedDate()
	entries := m.dayEntries()
	data := views.TimelineData{
		Date:    date,
		Label:   dateLabel(date),
		IsToday: date == m.store.Today(),
	}
	for i, e := range entries {
		data.Entries = append(data.Entries, m.toEntryData(e, i == m.Cursor))
	}
	data.Done, data.Total, data.Percent = scheduler.Progress(entries)
	data.ProgressView = m.dayProgress.ViewAs(float64(data.Percent) / 100)
	return views.RenderTimeline(data)
}

func (m Model) renderGridView() string {
	date := m.store.SelectedDate()
	opts := m.planOptions()
	opts.UnitHeight = float64(m.opts.RowsPerHour)
	entries := scheduler.DayPlan(m.store, date, opts)

	data := views.GridData{
		Date:        date,
		Label:       dateLabel(date),
		RowsPerHour: m.opts.RowsPerHour,
		StartHour:   gridStartHour,
		EndHour:     gridEndHour,
	}
	for i, e := range entries {
		if e.Geometry != nil {
			data.StartHour = min(data.StartHour, e.Geometry.StartMinutes/60)
			data.EndHour = max(data.EndHour, (e.Geometry.EndMinutes()+59)/60)
		}
		data.Entries = append(data.Entries, m.toEntryData(e, i == m.Cursor))
	}
	data.NowRow, data.ShowNow = scheduler.NowIndicator(date, m.now(), float64(m.opts.RowsPerHour))
	return views.RenderGrid(data)
}

func instanceWhen(inst model.Instance) string {
	when := fmt.Sprintf("%s %s", dateLabel(inst.InstanceDate), inst.Time)
	if inst.EndTime != "" {
		when += "-" + inst.EndTime
	}
	return when
}
