package update

import (
	"github.com/sandeepkv93/timetable/internal/scheduler"
	"github.com/sandeepkv93/timetable/internal/views"
)

// DayStats summarizes the selected day and the unfinished backlog.
type DayStats struct {
	Done        int
	Total       int
	Percent     int
	BusyMinutes int
	Important   int
	Overdue     int
	Open        int
}

func (m Model) computeDayStats() DayStats {
	opts := m.planOptions()
	opts.UnitHeight = 1
	entries := scheduler.DayPlan(m.store, m.store.SelectedDate(), opts)

	var s DayStats
	s.Done, s.Total, s.Percent = scheduler.Progress(entries)
	// Overlapping blocks are counted once per minute.
	var covered [scheduler.HoursPerDay * 60]bool
	for _, e := range entries {
		if !e.Imported && e.Instance.Important && !e.Done {
			s.Important++
		}
		if e.Geometry == nil {
			continue
		}
		for minute := e.Geometry.StartMinutes; minute < e.Geometry.EndMinutes(); minute++ {
			covered[minute] = true
		}
	}
	for _, c := range covered {
		if c {
			s.BusyMinutes++
		}
	}

	today := m.store.Today()
	for _, g := range m.store.Unfinished() {
		s.Open += len(g.Items)
		if g.Date < today {
			s.Overdue += len(g.Items)
		}
	}
	return s
}

func (m Model) renderStatsPane() string {
	s := m.computeDayStats()
	return views.RenderStats(views.StatsData{
		Date:         dateLabel(m.store.SelectedDate()),
		Done:         s.Done,
		Total:        s.Total,
		Percent:      s.Percent,
		ProgressView: m.dayProgress.ViewAs(float64(s.Percent) / 100),
		BusyMinutes:  s.BusyMinutes,
		Important:    s.Important,
		Overdue:      s.Overdue,
		Open:         s.Open,
	})
}
