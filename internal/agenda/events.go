package agenda

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/model"
)

// Draft carries the fields a caller supplies when creating an event.
// Time must already be normalized to HH:MM.
type Draft struct {
	Date       string
	Time       string
	EndTime    string
	Title      string
	Note       string
	Important  bool
	Recurrence *model.Recurrence
}

// Edit carries raw user input for the edit dialog.
type Edit struct {
	Title   string
	Note    string
	Time    string
	EndTime string
}

func (s *Store) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(s.events)
}

func (s *Store) Event(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.events[i].Clone(), true
	}
	return model.Event{}, false
}

// InstancesOn expands the user templates for date.
func (s *Store) InstancesOn(date string) []model.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.InstancesOnDate(s.events, date)
}

func (s *Store) Add(ctx context.Context, d Draft) (model.Event, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return model.Event{}, ErrEmptyTitle
	}
	if !model.IsClockTime(d.Time) {
		return model.Event{}, fmt.Errorf("%w: %q", ErrInvalidTime, d.Time)
	}
	if d.EndTime != "" && !model.IsClockTime(d.EndTime) {
		return model.Event{}, fmt.Errorf("%w: end %q", ErrInvalidTime, d.EndTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := d.Date
	if date == "" {
		date = s.today
	}
	var rec *model.Recurrence
	if d.Recurrence.Active() {
		rec = d.Recurrence.Clone()
		if rec.Interval <= 0 {
			rec.Interval = 1
		}
	}
	order := len(s.events)
	now := s.nowMillis()
	e := model.Event{
		ID:         s.newID(),
		Date:       date,
		Time:       d.Time,
		EndTime:    d.EndTime,
		Title:      title,
		Note:       strings.TrimSpace(d.Note),
		Important:  d.Important,
		CreatedAt:  now,
		ModifiedAt: now,
		SortOrder:  &order,
		Recurrence: rec,
	}
	if err := e.Validate(); err != nil {
		return model.Event{}, err
	}

	next := append(cloneEvents(s.events), e)
	if err := s.put(ctx, KeyEvents, next); err != nil {
		return model.Event{}, err
	}
	s.events = next
	s.log.Info("event_added", zap.String("id", e.ID), zap.String("date", e.Date), zap.Bool("recurring", e.IsRecurring()))
	return e.Clone(), nil
}

// Update applies mutate to a copy of the template, stamps modifiedAt and
// persists it. The id cannot be changed.
func (s *Store) Update(ctx context.Context, id string, mutate func(*model.Event)) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, id, true, mutate)
}

func (s *Store) updateLocked(ctx context.Context, id string, stamp bool, mutate func(*model.Event)) (model.Event, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := cloneEvents(s.events)
	mutate(&next[i])
	next[i].ID = id
	if stamp {
		next[i].ModifiedAt = s.nowMillis()
	}
	if err := next[i].Validate(); err != nil {
		return model.Event{}, err
	}
	if err := s.put(ctx, KeyEvents, next); err != nil {
		return model.Event{}, err
	}
	s.events = next
	return next[i].Clone(), nil
}

// Remove deletes the template and its completion entries. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	next := make([]model.Event, 0, len(s.events)-1)
	for _, e := range s.events {
		if e.ID != id {
			next = append(next, e.Clone())
		}
	}
	done := make(map[string]bool, len(s.done))
	for k, v := range s.done {
		if completionOwner(k) != id {
			done[k] = v
		}
	}

	if err := s.put(ctx, KeyEvents, next); err != nil {
		return err
	}
	s.events = next
	if len(done) != len(s.done) {
		// best effort: orphaned keys match no template
		if err := s.put(ctx, KeyRecurrenceDone, done); err != nil {
			s.log.Warn("completion_cleanup_failed", zap.String("id", id), zap.Error(err))
		} else {
			s.done = done
		}
	}
	s.log.Info("event_removed", zap.String("id", id))
	return nil
}

// completionOwner returns the template id of an "id:date" completion key.
func completionOwner(key string) string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[:i]
	}
	return key
}

// Edit updates title, note and times from raw input. A time that does not
// parse keeps the previous value; an empty end time clears it.
func (s *Store) Edit(ctx context.Context, id string, in Edit) (model.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Event{}, ErrEmptyTitle
	}
	now := s.now()
	return s.Update(ctx, id, func(e *model.Event) {
		e.Title = title
		e.Note = strings.TrimSpace(in.Note)
		if t, ok := model.ParseTimeFlexible(in.Time, now); ok {
			e.Time = t
		}
		end := strings.TrimSpace(in.EndTime)
		if end == "" {
			e.EndTime = ""
		} else if t, ok := model.ParseTimeFlexible(end, now); ok {
			e.EndTime = t
		}
	})
}

func (s *Store) ToggleImportant(ctx context.Context, id string) (bool, error) {
	e, err := s.Update(ctx, id, func(e *model.Event) { e.Important = !e.Important })
	if err != nil {
		return false, err
	}
	return e.Important, nil
}

// Reschedule moves a template to date. sortOrder is left alone.
func (s *Store) Reschedule(ctx context.Context, id, date string) (model.Event, error) {
	if !model.IsDateKey(date) {
		return model.Event{}, fmt.Errorf("%w: %q", model.ErrInvalidDate, date)
	}
	return s.Update(ctx, id, func(e *model.Event) { e.Date = date })
}

// Reorder swaps the sortOrder of two templates stored on date. A template
// without a sortOrder takes its position in the collection first.
func (s *Store) Reorder(ctx context.Context, draggedID, targetID, date string) error {
	if draggedID == targetID {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, b := s.indexOf(draggedID), s.indexOf(targetID)
	if a < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, draggedID)
	}
	if b < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, targetID)
	}
	if s.events[a].Date != date || s.events[b].Date != date {
		return fmt.Errorf("%w: %s", ErrOutOfScope, date)
	}

	next := cloneEvents(s.events)
	oa, ob := orderOf(next[a], a), orderOf(next[b], b)
	next[a].SortOrder, next[b].SortOrder = &ob, &oa
	if err := s.put(ctx, KeyEvents, next); err != nil {
		return err
	}
	s.events = next
	return nil
}

func orderOf(e model.Event, index int) int {
	if e.SortOrder != nil {
		return *e.SortOrder
	}
	return index
}

// TitleSuggestions returns up to limit distinct non-empty titles in
// collection order.
func (s *Store) TitleSuggestions(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	out := make([]string, 0, limit)
	for _, e := range s.events {
		if len(out) >= limit {
			break
		}
		t := strings.TrimSpace(e.Title)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
