package update

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/views"
)

const (
	fieldType = iota
	fieldInterval
	fieldEnd
	fieldCount
)

var ruleCycle = []model.RecurrenceType{
	model.RecurrenceNone,
	model.RecurrenceDaily,
	model.RecurrenceWeekly,
	model.RecurrenceMonthly,
}

func (m Model) openRecurrenceEditor(e model.Event) Model {
	state := RecurrenceEditorState{
		Active:       true,
		EventID:      e.ID,
		Title:        e.Title,
		RuleType:     model.RecurrenceNone,
		IntervalText: "1",
	}
	if e.Recurrence != nil {
		state.RuleType = e.Recurrence.Type
		state.IntervalText = strconv.Itoa(max(e.Recurrence.Interval, 1))
		state.EndDate = e.Recurrence.EndDate
	}
	m.recurrenceEditor = state
	m.computeRecurrencePreview()
	return m
}

func (m Model) handleRecurrenceEditorKey(msg tea.KeyMsg) Model {
	ed := &m.recurrenceEditor
	switch msg.String() {
	case "esc":
		ed.Active = false
		return m
	case "tab":
		ed.RuleType = nextRuleType(ed.RuleType)
	case "up":
		ed.Field = (ed.Field + fieldCount - 1) % fieldCount
		return m
	case "down":
		ed.Field = (ed.Field + 1) % fieldCount
		return m
	case "enter":
		return m.saveRecurrence()
	case "backspace":
		switch ed.Field {
		case fieldInterval:
			ed.IntervalText = dropLast(ed.IntervalText)
		case fieldEnd:
			ed.EndDate = dropLast(ed.EndDate)
		}
	default:
		if msg.Type != tea.KeyRunes {
			return m
		}
		switch ed.Field {
		case fieldInterval:
			ed.IntervalText += string(msg.Runes)
		case fieldEnd:
			ed.EndDate += string(msg.Runes)
		}
	}
	m.computeRecurrencePreview()
	return m
}

func nextRuleType(current model.RecurrenceType) model.RecurrenceType {
	for i, t := range ruleCycle {
		if t == current {
			return ruleCycle[(i+1)%len(ruleCycle)]
		}
	}
	return model.RecurrenceDaily
}

func dropLast(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}

// editorRule builds the rule from the editor fields; nil means no repeat.
func (m Model) editorRule() (*model.Recurrence, error) {
	ed := m.recurrenceEditor
	if ed.RuleType == model.RecurrenceNone {
		return nil, nil
	}
	interval, err := strconv.Atoi(strings.TrimSpace(ed.IntervalText))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("interval must be a positive number")
	}
	end := strings.TrimSpace(ed.EndDate)
	if end != "" && !model.IsDateKey(end) {
		return nil, fmt.Errorf("end date must be YYYY-MM-DD")
	}
	return &model.Recurrence{Type: ed.RuleType, Interval: interval, EndDate: end}, nil
}

func (m *Model) computeRecurrencePreview() {
	rule, err := m.editorRule()
	if err != nil {
		m.recurrenceEditor.Err = err.Error()
		m.recurrenceEditor.Preview = nil
		return
	}
	m.recurrenceEditor.Err = ""
	e, ok := m.store.Event(m.recurrenceEditor.EventID)
	if !ok {
		m.recurrenceEditor.Preview = nil
		return
	}
	e.Recurrence = rule
	m.recurrenceEditor.Preview = e.Preview(m.store.SelectedDate(), previewCount)
}

func (m Model) saveRecurrence() Model {
	rule, err := m.editorRule()
	if err != nil {
		m.recurrenceEditor.Err = err.Error()
		return m
	}
	e, err := m.store.Update(m.ctx, m.recurrenceEditor.EventID, func(e *model.Event) {
		e.Recurrence = rule
	})
	if err != nil {
		m.recurrenceEditor.Err = err.Error()
		return m
	}
	m.recurrenceEditor.Active = false
	if rule == nil {
		m.Status = StatusBar{Text: fmt.Sprintf("%q no longer repeats", e.Title)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("%q repeats %s", e.Title, describeRule(rule))}
	}
	return m
}

func describeRule(r *model.Recurrence) string {
	if !r.Active() {
		return ""
	}
	out := string(r.Type)
	if r.Interval > 1 {
		out = fmt.Sprintf("every %d (%s)", r.Interval, r.Type)
	}
	if r.EndDate != "" {
		out += " until " + r.EndDate
	}
	return out
}

func (m Model) renderRecurrenceEditorIfVisible() string {
	ed := m.recurrenceEditor
	return views.RenderRecurrenceEditor(views.RecurrenceEditorData{
		Active:       ed.Active,
		EventTitle:   ed.Title,
		RuleType:     string(ed.RuleType),
		IntervalText: ed.IntervalText,
		EndDate:      ed.EndDate,
		Field:        [...]string{"type", "interval", "end"}[ed.Field],
		ErrorText:    ed.Err,
		Preview:      ed.Preview,
	})
}
