package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/nlp"
	"github.com/sandeepkv93/timetable/internal/views"
)

var timeChips = []string{"now", "+15", "+30", "+60"}

func (m Model) openQuickAdd() Model {
	m.QuickAdd = QuickAddState{Active: true}
	m.quickAddInput.SetValue("")
	m.quickAddInput.SetSuggestions(m.store.TitleSuggestions(titleSuggestionLimit))
	m.quickAddInput.Focus()
	return m
}

// openEdit reuses the quick add dialog, prefilled with the template's title
// and start time.
func (m Model) openEdit(e model.Event) Model {
	m.QuickAdd = QuickAddState{Active: true, EditID: e.ID, Input: e.Title + " at " + e.Time}
	m.quickAddInput.SetValue(m.QuickAdd.Input)
	m.quickAddInput.CursorEnd()
	m.quickAddInput.Focus()
	return m
}

func (m Model) closeQuickAdd() Model {
	m.QuickAdd = QuickAddState{}
	m.quickAddInput.SetValue("")
	m.quickAddInput.Blur()
	return m
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		return m.closeQuickAdd()
	case "tab":
		if m.QuickAdd.EditID == "" {
			m.QuickAdd.Chip = (m.QuickAdd.Chip + 1) % len(timeChips)
		}
		return m
	case "enter":
		return m.submitQuickAdd()
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	_ = cmd
	m.QuickAdd.Input = m.quickAddInput.Value()
	m.QuickAdd.Err = ""
	return m
}

// targetDate is the date new events land on when the text names none.
func (m Model) targetDate() string {
	if m.CurrentView == ViewWeek {
		return m.weekColumnDate()
	}
	return m.store.SelectedDate()
}

func (m Model) submitQuickAdd() Model {
	raw := strings.TrimSpace(m.quickAddInput.Value())
	if raw == "" {
		m.QuickAdd.Err = "title is required"
		return m
	}
	now := m.now()
	x := nlp.Extract(raw, now)
	title := x.CleanTitle
	if title == "" {
		title = raw
	}

	if id := m.QuickAdd.EditID; id != "" {
		current, ok := m.store.Event(id)
		if !ok {
			m.QuickAdd.Err = "event no longer exists"
			return m
		}
		in := agenda.Edit{Title: title, Note: current.Note, Time: current.Time, EndTime: current.EndTime}
		if x.Time != "" {
			in.Time = x.Time
			in.EndTime = x.EndTime
		}
		if _, err := m.store.Edit(m.ctx, id, in); err != nil {
			m.QuickAdd.Err = err.Error()
			return m
		}
		m = m.closeQuickAdd()
		m.Status = StatusBar{Text: fmt.Sprintf("updated %q", title)}
		return m
	}

	draft := agenda.Draft{
		Date:       x.Date,
		Time:       x.Time,
		EndTime:    x.EndTime,
		Title:      title,
		Recurrence: x.Rule(),
	}
	if draft.Date == "" {
		draft.Date = m.targetDate()
	}
	if draft.Time == "" {
		chip, ok := model.TimeChip(timeChips[m.QuickAdd.Chip], now)
		if !ok {
			chip = model.ClockOf(model.RoundTo5Minutes(now))
		}
		draft.Time = chip
	}
	e, err := m.store.Add(m.ctx, draft)
	if err != nil {
		m.QuickAdd.Err = err.Error()
		return m
	}
	m = m.closeQuickAdd()
	m.Status = StatusBar{Text: fmt.Sprintf("added %q on %s at %s", e.Title, e.Date, e.Time)}
	return m
}

// quickAddPreview lists what the extractor found so far.
func (m Model) quickAddPreview() []string {
	raw := strings.TrimSpace(m.quickAddInput.Value())
	if raw == "" {
		return nil
	}
	x := nlp.Extract(raw, m.now())
	if !x.HasAny {
		return nil
	}
	lines := []string{"title: " + x.CleanTitle}
	if x.Date != "" {
		lines = append(lines, "date: "+x.Date)
	}
	if x.Time != "" {
		when := x.Time
		if x.EndTime != "" {
			when += "-" + x.EndTime
		}
		lines = append(lines, "time: "+when)
	}
	if x.Recurrence != "" {
		lines = append(lines, "repeats: "+string(x.Recurrence))
	}
	return lines
}

func (m Model) renderQuickAdd() string {
	data := views.QuickAddData{
		Active:    m.QuickAdd.Active,
		InputView: m.quickAddInput.View(),
		Preview:   m.quickAddPreview(),
		ChipIndex: m.QuickAdd.Chip,
		ErrorText: m.QuickAdd.Err,
	}
	if m.QuickAdd.EditID == "" {
		data.Chips = timeChips
	}
	return views.RenderQuickAdd(data)
}
