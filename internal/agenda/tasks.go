package agenda

import (
	"sort"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
)

type DateGroup struct {
	Date  string
	Items []model.Instance
}

// Unfinished groups one-off templates that are not done by date, ordered by
// date and then by the day comparator.
func (s *Store) Unfinished() []DateGroup {
	s.mu.RLock()
	list := make([]model.Instance, 0)
	for _, e := range s.events {
		if e.IsRecurring() || e.Done {
			continue
		}
		list = append(list, model.Instance{Event: e.Clone(), InstanceDate: e.Date})
	}
	s.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return scheduler.Compare(list[i], list[j]) < 0
	})

	out := make([]DateGroup, 0)
	for _, inst := range list {
		if n := len(out); n > 0 && out[n-1].Date == inst.Date {
			out[n-1].Items = append(out[n-1].Items, inst)
			continue
		}
		out = append(out, DateGroup{Date: inst.Date, Items: []model.Instance{inst}})
	}
	return out
}
