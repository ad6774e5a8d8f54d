package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/commands"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
	"github.com/sandeepkv93/timetable/internal/views"
)

func (m Model) currentMonth() int {
	return int(m.now().Month()) - 1
}

func (m Model) plannerGoals() []model.MonthlyGoal {
	var out []model.MonthlyGoal
	for _, g := range m.store.GoalsByMonth(m.currentMonth()) {
		out = append(out, g.Goals...)
	}
	return out
}

func (m Model) handlePlannerKey(msg tea.KeyMsg) Model {
	goals := m.plannerGoals()
	switch msg.String() {
	case "up", "k":
		if m.Planner.Cursor > 0 {
			m.Planner.Cursor--
		}
	case "down", "j":
		if m.Planner.Cursor < len(goals)-1 {
			m.Planner.Cursor++
		}
	case "a":
		m.Planner.Adding = true
		m.goalInput.SetValue("")
		m.goalInput.Focus()
	case "d", "delete":
		if m.Planner.Cursor >= len(goals) {
			return m
		}
		goal := goals[m.Planner.Cursor]
		if err := m.store.RemoveGoal(m.ctx, goal.ID); err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("removed goal %q", goal.Title)}
		m.clampCursor()
	}
	return m
}

func (m Model) handleGoalInputKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Planner.Adding = false
		m.goalInput.Blur()
	case "enter":
		month, title := m.parseGoalInput(m.goalInput.Value())
		goal, err := m.store.AddGoal(m.ctx, month, title)
		if err != nil {
			m.setError(err)
			return m
		}
		m.Planner.Adding = false
		m.goalInput.Blur()
		m.Status = StatusBar{Text: fmt.Sprintf("goal added to %s", monthName(goal.Month))}
	default:
		var cmd tea.Cmd
		m.goalInput, cmd = m.goalInput.Update(msg)
		_ = cmd
	}
	return m
}

// parseGoalInput reads an optional leading month ("mar", "3") followed by
// the title. Without a month the goal lands in the current month.
func (m Model) parseGoalInput(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	head, rest, found := strings.Cut(raw, " ")
	if found {
		if month, err := commands.ParseMonth(head); err == nil {
			return month, strings.TrimSpace(rest)
		}
	}
	return m.currentMonth(), raw
}

func (m Model) renderPlannerView() string {
	current := m.currentMonth()
	data := views.PlannerData{
		Adding:    m.Planner.Adding,
		InputView: m.goalInput.View(),
	}
	index := 0
	for _, group := range m.store.GoalsByMonth(current) {
		month := views.MonthData{
			Name:    monthName(group.Month),
			Current: group.Month == current,
		}
		for _, g := range group.Goals {
			month.Goals = append(month.Goals, views.GoalData{
				ID:       g.ID,
				Title:    g.Title,
				Selected: index == m.Planner.Cursor,
			})
			index++
		}
		data.Months = append(data.Months, month)
	}
	for _, inst := range scheduler.Upcoming(m.store.Events(), m.store.Today(), upcomingLimit) {
		data.Upcoming = append(data.Upcoming, views.EntryData{
			ID:    inst.ID,
			Date:  inst.InstanceDate,
			Time:  inst.Time,
			Title: inst.Title,
		})
	}
	return views.RenderPlanner(data)
}
