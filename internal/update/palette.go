package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/commands"
	"github.com/sandeepkv93/timetable/internal/feed"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/nlp"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

// resolveTarget maps "selected" to the entry under the cursor of the day view.
func (m Model) resolveTarget(target string) (model.Instance, error) {
	if target == commands.TargetSelected {
		entry, ok := m.selectedEntry()
		if !ok {
			return model.Instance{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "nothing selected"}
		}
		if entry.Imported {
			return model.Instance{}, errReadOnly
		}
		return entry.Instance, nil
	}
	e, ok := m.store.Event(target)
	if !ok {
		return model.Instance{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "unknown event: " + target}
	}
	date := m.store.SelectedDate()
	if !e.OccursOn(date) {
		date = e.Date
	}
	return model.Instance{Event: e, InstanceDate: date}, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw, m.store.Today())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			x := nlp.Extract(a.Text, m.now())
			title := x.CleanTitle
			if title == "" {
				title = a.Text
			}
			draft := agenda.Draft{Date: x.Date, Time: x.Time, EndTime: x.EndTime, Title: title, Recurrence: x.Rule()}
			if draft.Date == "" {
				draft.Date = m.targetDate()
			}
			if draft.Time == "" {
				draft.Time = model.ClockOf(model.RoundTo5Minutes(m.now()))
			}
			e, err := m.store.Add(m.ctx, draft)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q on %s at %s", e.Title, e.Date, e.Time)}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			inst, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			done, err := m.store.ToggleDone(m.ctx, inst.ID, inst.InstanceDate)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s on %s done: %v", inst.Title, inst.InstanceDate, done)}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			inst, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.Remove(m.ctx, inst.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %q", inst.Title)}, nil
		},
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			if err := m.store.SelectDate(m.ctx, a.Date); err != nil {
				return commands.Result{}, err
			}
			m.Cursor = 0
			return commands.Result{Message: "showing " + a.Date}, nil
		},
		Shift: func(a commands.ShiftArgs) (commands.Result, error) {
			date, err := m.store.ShiftDate(m.ctx, a.Days)
			if err != nil {
				return commands.Result{}, err
			}
			m.Cursor = 0
			return commands.Result{Message: "showing " + date}, nil
		},
		Today: func() (commands.Result, error) {
			if err := m.store.GoToday(m.ctx); err != nil {
				return commands.Result{}, err
			}
			m.Cursor = 0
			return commands.Result{Message: "showing today"}, nil
		},
		Week: func(a commands.WeekArgs) (commands.Result, error) {
			start, err := m.store.ShiftWeek(m.ctx, a.Weeks)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewWeek
			return commands.Result{Message: "week of " + start}, nil
		},
		View: func(a commands.ViewArgs) (commands.Result, error) {
			for _, v := range viewOrder {
				if strings.EqualFold(string(v), a.Name) {
					m = m.switchView(v)
					return commands.Result{Message: "view: " + a.Name}, nil
				}
			}
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "unknown view: " + a.Name}
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			inst, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.store.Reschedule(m.ctx, inst.ID, a.Date); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("moved %q to %s", inst.Title, a.Date)}, nil
		},
		Swap: func(a commands.SwapArgs) (commands.Result, error) {
			dragged, ok := m.store.Event(a.Dragged)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "unknown event: " + a.Dragged}
			}
			if err := m.store.Reorder(m.ctx, a.Dragged, a.Target, dragged.Date); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "reordered"}, nil
		},
		Goal: func(a commands.GoalArgs) (commands.Result, error) {
			if a.Action == commands.GoalRemove {
				if err := m.store.RemoveGoal(m.ctx, a.ID); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "goal removed"}, nil
			}
			goal, err := m.store.AddGoal(m.ctx, a.Month, a.Title)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("goal added to %s", monthName(goal.Month))}, nil
		},
		Sync: func() (commands.Result, error) {
			if m.syncer == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "calendar sync is not configured"}
			}
			if m.Sync.Running {
				return commands.Result{Message: "sync already running"}, nil
			}
			next = m.startSyncFromKey()
			return commands.Result{Message: "syncing calendar"}, nil
		},
		URL: func(a commands.URLArgs) (commands.Result, error) {
			url := a.URL
			if url != "" {
				normalized, err := feed.NormalizeURL(url)
				if err != nil {
					return commands.Result{}, err
				}
				url = normalized
			}
			if err := m.store.SetCalendarURL(m.ctx, url); err != nil {
				return commands.Result{}, err
			}
			if url == "" {
				return commands.Result{Message: "calendar url cleared"}, nil
			}
			return commands.Result{Message: "calendar url set to " + feed.RedactURL(url)}, nil
		},
	})
	if err != nil {
		m.setError(err)
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m, next
}
