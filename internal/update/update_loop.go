package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{clockTickCmd()}
	if m.syncer != nil && m.store.CalendarURL() != "" {
		cmds = append(cmds, m.syncCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		return m, nil
	case tea.KeyMsg:
		m.clampCursor()

		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}
		if m.QuickAdd.Active {
			return m.handleQuickAddKey(typed), nil
		}
		if m.recurrenceEditor.Active {
			return m.handleRecurrenceEditorKey(typed), nil
		}
		if m.Move.Active {
			return m.handleMoveKey(typed), nil
		}
		if m.Planner.Adding {
			return m.handleGoalInputKey(typed), nil
		}

		keyStr := typed.String()
		switch keyStr {
		case ":", "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Timeline:
			return m.switchView(ViewTimeline), nil
		case m.Keys.Grid:
			return m.switchView(ViewGrid), nil
		case m.Keys.Week:
			return m.switchView(ViewWeek), nil
		case m.Keys.Tasks:
			return m.switchView(ViewTasks), nil
		case m.Keys.Planner:
			return m.switchView(ViewPlanner), nil
		case "tab":
			return m.switchView(nextView(m.CurrentView, 1)), nil
		case "shift+tab":
			return m.switchView(nextView(m.CurrentView, -1)), nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "a":
			if m.CurrentView != ViewPlanner {
				return m.openQuickAdd(), nil
			}
		case "t":
			if err := m.store.GoToday(m.ctx); err != nil {
				m.setError(err)
				return m, nil
			}
			m.Cursor = 0
			if m.CurrentView == ViewWeek {
				m = m.focusWeekOn(m.store.Today())
			}
			return m, nil
		case "S":
			if m.Sync.Running {
				return m, nil
			}
			cmd := m.startSyncFromKey()
			return m, cmd
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTimeline, ViewGrid:
			return m.handleDayKey(typed), nil
		case ViewWeek:
			return m.handleWeekKey(typed), nil
		case ViewTasks:
			return m.handleTasksKey(typed), nil
		case ViewPlanner:
			return m.handlePlannerKey(typed), nil
		}
	case spinner.TickMsg:
		if m.Sync.Running {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m = m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.setError(typed.Err)
		return m, nil
	case TickMsg:
		m.onTick(typed.At)
		return m, clockTickCmd()
	case SyncResultMsg:
		m.onSyncResult(typed.Status)
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("error: %s", m.Status.Text)
		} else {
			status = m.Status.Text
		}
	}

	var leftPane string
	switch m.CurrentView {
	case ViewTimeline:
		leftPane = m.renderTimelineView()
	case ViewGrid:
		leftPane = m.renderGridView()
	case ViewWeek:
		leftPane = m.renderWeekView()
	case ViewTasks:
		leftPane = m.renderTasksView()
	case ViewPlanner:
		leftPane = m.renderPlannerView()
	}

	var rightPane string
	switch {
	case m.QuickAdd.Active:
		rightPane = m.renderQuickAdd()
	case m.recurrenceEditor.Active:
		rightPane = m.renderRecurrenceEditorIfVisible()
	case m.Move.Active:
		rightPane = m.renderMovePanel()
	case m.CurrentView != ViewPlanner:
		rightPane = m.renderDetailPane()
	}
	rightPane = strings.TrimSpace(strings.Join([]string{rightPane, m.renderCommandPalette(), m.renderHelpIfVisible()}, "\n\n"))

	notification := strings.TrimSpace(strings.Join([]string{
		m.renderSyncLine(),
		m.renderNotificationsView(),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:       m.headerText(),
		Tabs:         viewNames(),
		ActiveTab:    viewIndex(m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer:       fmt.Sprintf("keys: %s-%s views | a add | space done | : cmd | S sync | %s help | %s quit", m.Keys.Timeline, m.Keys.Planner, m.Keys.Help, m.Keys.Quit),
		Width:        m.width,
	})
}

func (m Model) headerText() string {
	date := m.store.SelectedDate()
	label := date
	if t, err := time.Parse("2006-01-02", date); err == nil {
		label = t.Format("Mon 2 Jan 2006")
	}
	return fmt.Sprintf("timetable | %s | %s", strings.ToLower(string(m.CurrentView)), label)
}

func (m Model) switchView(v View) Model {
	if m.CurrentView != v {
		m.Cursor = 0
	}
	m.CurrentView = v
	if v == ViewWeek {
		m = m.focusWeekOn(m.store.SelectedDate())
	}
	return m
}

func isKnownView(v View) bool {
	return viewIndex(v) >= 0
}

func viewIndex(v View) int {
	for i, candidate := range viewOrder {
		if candidate == v {
			return i
		}
	}
	return -1
}

func viewNames() []string {
	out := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		out = append(out, fmt.Sprintf("%d %s", i+1, v))
	}
	return out
}

func nextView(current View, delta int) View {
	i := viewIndex(current)
	if i < 0 {
		return ViewTimeline
	}
	n := len(viewOrder)
	return viewOrder[((i+delta)%n+n)%n]
}
