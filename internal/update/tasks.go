package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/views"
)

// taskItems flattens the unfinished groups in display order.
func (m Model) taskItems() []model.Instance {
	var out []model.Instance
	for _, g := range m.store.Unfinished() {
		out = append(out, g.Items...)
	}
	return out
}

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	items := m.taskItems()
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(items)-1 {
			m.Cursor++
		}
	case " ", "x":
		if m.Cursor >= len(items) {
			return m
		}
		item := items[m.Cursor]
		if _, err := m.store.ToggleDone(m.ctx, item.ID, item.InstanceDate); err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s: done", item.Title)}
		m.clampCursor()
	case "T":
		if m.Cursor >= len(items) {
			return m
		}
		item := items[m.Cursor]
		if _, err := m.store.Reschedule(m.ctx, item.ID, m.store.Today()); err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s moved to today", item.Title)}
	case "enter":
		if m.Cursor >= len(items) {
			return m
		}
		if err := m.store.SelectDate(m.ctx, items[m.Cursor].InstanceDate); err != nil {
			m.setError(err)
			return m
		}
		return m.switchView(ViewTimeline)
	}
	return m
}

func (m Model) renderTasksView() string {
	today := m.store.Today()
	data := views.TasksData{}
	index := 0
	for _, g := range m.store.Unfinished() {
		group := views.TaskGroupData{
			Date:    g.Date,
			Label:   dateLabel(g.Date),
			Overdue: g.Date < today,
		}
		for _, inst := range g.Items {
			group.Items = append(group.Items, views.EntryData{
				ID:        inst.ID,
				Date:      inst.InstanceDate,
				Time:      inst.Time,
				EndTime:   inst.EndTime,
				Title:     inst.Title,
				Important: inst.Important,
				Selected:  index == m.Cursor,
			})
			index++
		}
		data.Groups = append(data.Groups, group)
	}
	return views.RenderTasks(data)
}
