package model

import "time"

// previewSearchLimit bounds monthly probing so rules that never match
// (e.g. day 31 every 2 months from an odd anchor) still terminate.
const previewSearchLimit = 1200

// OccursOn reports whether the template produces an instance on date.
// Malformed dates yield false rather than an error.
func (e Event) OccursOn(date string) bool {
	day, err := ParseDateKey(date)
	if err != nil {
		return false
	}
	if !e.IsRecurring() {
		return e.Date == date
	}
	anchor, err := ParseDateKey(e.Date)
	if err != nil {
		return false
	}
	if anchor.After(day) {
		return false
	}
	if end, ok := e.Recurrence.end(); ok && end.Before(day) {
		return false
	}

	k := e.Recurrence.interval()
	switch e.Recurrence.Type {
	case RecurrenceDaily:
		return wholeDays(anchor, day)%k == 0
	case RecurrenceWeekly:
		return wholeDays(anchor, day)%(7*k) == 0
	case RecurrenceMonthly:
		if day.Day() != anchor.Day() {
			return false
		}
		return monthIndex(day)-monthIndex(anchor) >= 0 && (monthIndex(day)-monthIndex(anchor))%k == 0
	default:
		return false
	}
}

// InstancesOnDate expands templates into the instances visible on date, in
// input order. Each instance carries its own copy of the template.
func InstancesOnDate(events []Event, date string) []Instance {
	if !IsDateKey(date) {
		return []Instance{}
	}
	out := make([]Instance, 0, len(events))
	for _, e := range events {
		if !e.OccursOn(date) {
			continue
		}
		out = append(out, Instance{Event: e.Clone(), InstanceDate: date})
	}
	return out
}

// NextOnOrAfter returns the first occurrence date >= from.
func (e Event) NextOnOrAfter(from string) (string, bool) {
	start, err := ParseDateKey(from)
	if err != nil {
		return "", false
	}
	anchor, err := ParseDateKey(e.Date)
	if err != nil {
		return "", false
	}
	if !e.IsRecurring() {
		if anchor.Before(start) {
			return "", false
		}
		return e.Date, true
	}
	if start.Before(anchor) {
		start = anchor
	}

	var next time.Time
	k := e.Recurrence.interval()
	switch e.Recurrence.Type {
	case RecurrenceDaily, RecurrenceWeekly:
		step := k
		if e.Recurrence.Type == RecurrenceWeekly {
			step = 7 * k
		}
		diff := wholeDays(anchor, start)
		steps := (diff + step - 1) / step
		next = anchor.AddDate(0, 0, steps*step)
	case RecurrenceMonthly:
		found := false
		offset := monthIndex(start) - monthIndex(anchor)
		if rem := offset % k; rem != 0 {
			offset += k - rem
		}
		for i := 0; i < previewSearchLimit; i++ {
			total := monthIndex(anchor) + offset
			candidate := time.Date(total/12, time.Month(total%12+1), anchor.Day(), 0, 0, 0, 0, time.UTC)
			if candidate.Day() == anchor.Day() && !candidate.Before(start) {
				next, found = candidate, true
				break
			}
			offset += k
		}
		if !found {
			return "", false
		}
	default:
		return "", false
	}

	if end, ok := e.Recurrence.end(); ok && end.Before(next) {
		return "", false
	}
	return DateKey(next), true
}

// Preview lists up to count occurrence dates on or after from.
func (e Event) Preview(from string, count int) []string {
	out := make([]string, 0, max(count, 0))
	cursor := from
	for len(out) < count {
		next, ok := e.NextOnOrAfter(cursor)
		if !ok {
			break
		}
		out = append(out, next)
		if !e.IsRecurring() {
			break
		}
		cursor, _ = AddDays(next, 1)
	}
	return out
}

func (r *Recurrence) interval() int {
	if r == nil || r.Interval <= 0 {
		return 1
	}
	return r.Interval
}

// end returns the parsed end date; an unparsable end date counts as absent.
func (r *Recurrence) end() (time.Time, bool) {
	if r == nil || r.EndDate == "" {
		return time.Time{}, false
	}
	t, err := ParseDateKey(r.EndDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// monthIndex is year*12 + zero-based month.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
