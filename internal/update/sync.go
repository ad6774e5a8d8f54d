package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/feed"
)

var errSyncUnavailable = errors.New("calendar sync is not configured")

func clockTickCmd() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}

// syncCmd runs one feed sync off the update loop.
func (m Model) syncCmd() tea.Cmd {
	syncer := m.syncer
	if syncer == nil {
		return nil
	}
	return func() tea.Msg {
		return SyncResultMsg{Status: syncer.Sync(context.Background())}
	}
}

func (m *Model) startSyncFromKey() tea.Cmd {
	if m.syncer == nil {
		m.setError(errSyncUnavailable)
		return nil
	}
	m.Sync.Running = true
	m.Status = StatusBar{Text: "syncing calendar"}
	return tea.Batch(m.syncSpinner.Tick, m.syncCmd())
}

func (m *Model) onSyncResult(st feed.Status) {
	m.Sync.Running = false
	m.Sync.HasRun = true
	m.Sync.Last = st
	switch st.Outcome {
	case feed.OK:
		m.notify("Calendar", fmt.Sprintf("imported %d calendar event(s)", st.Imported), "info")
	case feed.Failed:
		m.notify("Calendar", fmt.Sprintf("sync failed: %v", st.Err), "error")
		m.log.Warn("tui_sync_failed", zap.Error(st.Err))
	}
}

func (m *Model) onTick(at time.Time) {
	changed, err := m.store.RecheckToday(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	if changed {
		m.Cursor = 0
		m.announced = make(map[string]bool)
		m.Status = StatusBar{Text: "good morning, it is " + dateLabel(m.store.Today())}
	}
	m.checkStartingSoon(at)
}

func (m Model) renderSyncLine() string {
	if m.Sync.Running {
		return m.syncSpinner.View() + " syncing calendar"
	}
	if !m.Sync.HasRun {
		return ""
	}
	st := m.Sync.Last
	at := st.At.Local().Format("15:04")
	switch st.Outcome {
	case feed.OK:
		return fmt.Sprintf("calendar: %d event(s), synced %s", st.Imported, at)
	case feed.Failed:
		return fmt.Sprintf("calendar: last sync failed at %s", at)
	default:
		return ""
	}
}
