package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
	"github.com/sandeepkv93/timetable/internal/views"
)

func (m Model) beginMove(inst model.Instance) Model {
	if err := m.interaction.BeginDrag(inst.ID, inst.InstanceDate); err != nil {
		m.setError(err)
		return m
	}
	m.Move = MoveState{
		Active:  true,
		EventID: inst.ID,
		Title:   inst.Title,
		From:    inst.InstanceDate,
		Target:  inst.InstanceDate,
	}
	m.Status = StatusBar{Text: fmt.Sprintf("moving %q", inst.Title)}
	return m
}

func (m Model) handleMoveKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.interaction.Reset()
		m.Move = MoveState{}
		m.Status = StatusBar{Text: "move cancelled"}
	case "left", "h":
		m = m.moveTargetBy(-1)
	case "right", "l":
		m = m.moveTargetBy(1)
	case "down", "j":
		m.Move.TargetEventID = m.cycleSwapTarget(1)
	case "up", "k":
		m.Move.TargetEventID = m.cycleSwapTarget(-1)
	case "enter":
		return m.finishMove()
	}
	return m
}

func (m Model) moveTargetBy(days int) Model {
	next, err := model.AddDays(m.Move.Target, days)
	if err != nil {
		m.setError(err)
		return m
	}
	m.Move.Target = next
	m.Move.TargetEventID = ""
	return m
}

// swapCandidates are the other user templates stored on the drag's start
// date. Repeating occurrences of other anchors cannot be reordered there.
func (m Model) swapCandidates() []scheduler.Entry {
	dragged, ok := m.store.Event(m.Move.EventID)
	if !ok || dragged.Date != m.Move.From {
		return nil
	}
	var out []scheduler.Entry
	opts := m.planOptions()
	opts.HideImported = true
	for _, e := range scheduler.DayPlan(m.store, m.Move.From, opts) {
		if e.Instance.ID != m.Move.EventID && e.Instance.Date == m.Move.From {
			out = append(out, e)
		}
	}
	return out
}

func (m Model) cycleSwapTarget(delta int) string {
	if m.Move.Target != m.Move.From {
		return ""
	}
	candidates := m.swapCandidates()
	if len(candidates) == 0 {
		return ""
	}
	current := -1
	for i, c := range candidates {
		if c.Instance.ID == m.Move.TargetEventID {
			current = i
		}
	}
	n := len(candidates)
	next := current + delta
	if current < 0 && delta < 0 {
		next = n - 1
	}
	return candidates[(next%n+n)%n].Instance.ID
}

func (m Model) finishMove() Model {
	target := agenda.DropTarget{EventID: m.Move.TargetEventID, Date: m.Move.Target}
	title, to := m.Move.Title, m.Move.Target
	swapped := target.EventID != ""
	m.Move = MoveState{}
	if err := m.store.Drop(m.ctx, m.interaction, target); err != nil {
		m.setError(err)
		return m
	}
	if swapped {
		m.Status = StatusBar{Text: fmt.Sprintf("reordered %q", title)}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("moved %q to %s", title, to)}
	return m
}

func (m Model) renderMovePanel() string {
	target := m.Move.Target
	if m.Move.TargetEventID != "" {
		if e, ok := m.store.Event(m.Move.TargetEventID); ok {
			target = fmt.Sprintf("swap with %q", e.Title)
		}
	}
	return views.RenderMove(views.MoveData{
		Active: m.Move.Active,
		Title:  m.Move.Title,
		From:   m.Move.From,
		Target: target,
		Hint:   "[h/l] day [j/k] swap target [enter] drop [esc] cancel",
	})
}
