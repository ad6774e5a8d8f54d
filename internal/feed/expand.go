package feed

import (
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
)

// maxOccurrencesPerEvent caps a single RRULE expansion.
const maxOccurrencesPerEvent = 2000

// occurrence is one concrete slot of a VEVENT.
type occurrence struct {
	event     vevent
	start     time.Time
	end       time.Time
	hasEnd    bool
	recurring bool
}

type overrideKey struct {
	uid   string
	start int64
}

// expand resolves RRULE/EXDATE/RECURRENCE-ID into concrete occurrences
// inside window. Without a window a recurring event yields only its first
// occurrence.
func (p *Parser) expand(events []vevent, window Window) []occurrence {
	overrides := make(map[overrideKey]bool)
	for _, ev := range events {
		if ev.RecurrenceID != nil {
			overrides[overrideKey{ev.UID, ev.RecurrenceID.Unix()}] = true
		}
	}

	var out []occurrence
	for _, ev := range events {
		if ev.RRule == "" || ev.RecurrenceID != nil {
			if window.Contains(ev.Start) {
				out = append(out, occurrence{
					event:     ev,
					start:     ev.Start,
					end:       ev.End,
					hasEnd:    ev.HasEnd,
					recurring: ev.RecurrenceID != nil,
				})
			}
			continue
		}
		out = append(out, p.expandRecurring(ev, window, overrides)...)
	}
	return out
}

func (p *Parser) expandRecurring(ev vevent, window Window, overrides map[overrideKey]bool) []occurrence {
	rule, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		p.log.Warn("feed_rrule_invalid", zap.String("uid", ev.UID), zap.String("rrule", ev.RRule), zap.Error(err))
		return nil
	}
	rule.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	var starts []time.Time
	if window.IsZero() {
		starts = []time.Time{ev.Start}
	} else {
		from, to := window.From, window.To
		if from.IsZero() {
			from = ev.Start
		}
		if to.IsZero() {
			to = from.AddDate(1, 0, 0)
		}
		starts = set.Between(from.In(ev.Start.Location()), to.In(ev.Start.Location()), true)
	}
	if len(starts) > maxOccurrencesPerEvent {
		p.log.Warn("feed_rrule_truncated", zap.String("uid", ev.UID), zap.Int("cap", maxOccurrencesPerEvent))
		starts = starts[:maxOccurrencesPerEvent]
	}

	duration := ev.End.Sub(ev.Start)
	out := make([]occurrence, 0, len(starts))
	for _, start := range starts {
		if overrides[overrideKey{ev.UID, start.Unix()}] {
			continue
		}
		out = append(out, occurrence{
			event:     ev,
			start:     start,
			end:       start.Add(duration),
			hasEnd:    ev.HasEnd,
			recurring: true,
		})
	}
	return out
}
