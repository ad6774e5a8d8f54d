package scheduler

import (
	"github.com/sandeepkv93/timetable/internal/model"
)

// Source supplies the instances for a date. Implementations must return copies.
type Source interface {
	InstancesOn(date string) []model.Instance
	ImportedOn(date string) []model.Instance
	IsDone(inst model.Instance) bool
}

// Entry is one display-ready row of a day.
type Entry struct {
	Instance model.Instance
	Imported bool
	Done     bool
	Geometry *Geometry
}

type Options struct {
	Order Order
	// UnitHeight enables geometry when positive.
	UnitHeight float64
	// HideImported leaves feed events out of the plan.
	HideImported bool
}

// DayPlan merges user and imported instances for date in display order.
func DayPlan(src Source, date string, opts Options) []Entry {
	list := src.InstancesOn(date)
	if !opts.HideImported {
		list = append(list, src.ImportedOn(date)...)
	}
	SortInstances(list, opts.Order)

	out := make([]Entry, 0, len(list))
	for _, inst := range list {
		entry := Entry{Instance: inst, Imported: inst.Imported, Done: src.IsDone(inst)}
		if opts.UnitHeight > 0 {
			g := BlockGeometry(inst, opts.UnitHeight)
			entry.Geometry = &g
		}
		out = append(out, entry)
	}
	return out
}

type Column struct {
	Date    string
	Entries []Entry
}

// WeekColumns builds seven columns starting at the Monday of anchor's week.
func WeekColumns(src Source, anchor string, opts Options) ([]Column, error) {
	start, err := model.WeekStart(anchor)
	if err != nil {
		return nil, err
	}
	cols := make([]Column, 0, 7)
	for i := 0; i < 7; i++ {
		date, err := model.AddDays(start, i)
		if err != nil {
			return nil, err
		}
		cols = append(cols, Column{Date: date, Entries: DayPlan(src, date, opts)})
	}
	return cols, nil
}

// Progress counts done user instances; imported events are excluded.
func Progress(entries []Entry) (done, total, percent int) {
	for _, e := range entries {
		if e.Imported {
			continue
		}
		total++
		if e.Done {
			done++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	percent = (done*100 + total/2) / total
	return done, total, percent
}
