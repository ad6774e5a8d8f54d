package update

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/views"
)

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

// renderDetailPane describes the entry under the cursor. Only the day views
// have a cursor over entries.
func (m Model) renderDetailPane() string {
	if m.CurrentView != ViewTimeline && m.CurrentView != ViewGrid {
		return m.renderStatsPane()
	}
	entry, ok := m.selectedEntry()
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	inst := entry.Instance
	data := views.DetailData{
		Title:     inst.Title,
		When:      instanceWhen(inst),
		Imported:  entry.Imported,
		Done:      entry.Done,
		Important: inst.Important,
	}
	if inst.Recurrence.Active() {
		data.Recurrence = describeRule(inst.Recurrence)
	}
	if strings.TrimSpace(inst.Note) != "" {
		data.NoteView = m.noteViewport.View()
	}
	return views.RenderDetail(data)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if level == "reminder" {
		m.sendDesktop(n)
	}
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.log.Debug("tui_action_failed", zap.Error(err))
}

// syncBubbleData pushes model state into the bubbles components. It runs
// after every update so the views never render stale component state.
func (m *Model) syncBubbleData() {
	if !m.Palette.Active && m.commandInput.Value() != "" {
		m.commandInput.SetValue("")
	}
	if !m.QuickAdd.Active && m.quickAddInput.Value() != "" {
		m.quickAddInput.SetValue("")
	}

	note := ""
	if m.CurrentView == ViewTimeline || m.CurrentView == ViewGrid {
		if entry, ok := m.selectedEntry(); ok {
			note = entry.Instance.Note
		}
	}
	if note != m.noteSource {
		m.noteSource = note
		m.noteViewport.SetContent(views.RenderMarkdown(note, m.noteViewport.Width))
		m.noteViewport.GotoTop()
	}
}
