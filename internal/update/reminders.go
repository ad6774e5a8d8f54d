package update

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
)

// checkStartingSoon announces open entries of today that start within the
// lead window. Each instance is announced once per day.
func (m *Model) checkStartingSoon(now time.Time) {
	today := m.store.Today()
	if model.DateKey(now) != today {
		return
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	lead := m.opts.NotifyLeadMinutes
	for _, e := range scheduler.DayPlan(m.store, today, m.planOptions()) {
		if e.Done {
			continue
		}
		inst := e.Instance
		until := inst.StartMinutes() - nowMinutes
		if until < 0 || until > lead {
			continue
		}
		key := model.CompletionKey(inst.ID, today)
		if m.announced[key] {
			continue
		}
		m.announced[key] = true
		body := fmt.Sprintf("%s at %s", inst.Title, inst.Time)
		if until == 0 {
			body = fmt.Sprintf("%s starts now", inst.Title)
		}
		m.notify("Starting soon", body, "reminder")
	}
}

func (m *Model) sendDesktop(n Notification) {
	if !m.opts.DesktopNotifications || m.notifier == nil {
		return
	}
	if err := m.notifier.Send(n); err != nil {
		m.log.Debug("desktop_notification_failed", zap.Error(err))
	}
}
