package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/timetable/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Timeline, Action: "timeline"},
		{Key: m.Keys.Grid, Action: "grid"},
		{Key: m.Keys.Week, Action: "week"},
		{Key: m.Keys.Tasks, Action: "tasks"},
		{Key: m.Keys.Planner, Action: "planner"},
		{Key: "a", Action: "quick add"},
		{Key: "t", Action: "today"},
		{Key: ":", Action: "command palette"},
		{Key: "S", Action: "sync calendar"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTimeline, ViewGrid:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "h/l", Action: "previous/next day"},
			{Key: "space", Action: "toggle done"},
			{Key: "!", Action: "toggle important"},
			{Key: "e", Action: "edit"},
			{Key: "r", Action: "repeat rule"},
			{Key: "m", Action: "move or reorder"},
			{Key: "d", Action: "delete"},
		}
	case ViewWeek:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: "[/]", Action: "previous/next week"},
			{Key: "enter", Action: "open day"},
		}
	case ViewTasks:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "mark done"},
			{Key: "T", Action: "move to today"},
			{Key: "enter", Action: "open day"},
		}
	case ViewPlanner:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "a", Action: "add goal"},
			{Key: "d", Action: "remove goal"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
