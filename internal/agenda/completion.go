package agenda

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/model"
)

// IsDone reports the completion state of an instance. One-off templates use
// their own flag; recurring templates use the per-date completion map.
func (s *Store) IsDone(inst model.Instance) bool {
	if inst.Imported {
		return inst.Done
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(inst.ID); i >= 0 {
		return s.isDoneLocked(s.events[i], inst.InstanceDate)
	}
	return false
}

func (s *Store) IsDoneOn(id, date string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.isDoneLocked(s.events[i], date), nil
}

func (s *Store) isDoneLocked(e model.Event, date string) bool {
	if !e.IsRecurring() {
		return e.Done
	}
	return s.done[model.CompletionKey(e.ID, date)]
}

// ToggleDone flips completion for the template's instance on date and
// returns the new state. Only the one-off path stamps modifiedAt.
func (s *Store) ToggleDone(ctx context.Context, id, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !s.events[i].IsRecurring() {
		e, err := s.updateLocked(ctx, id, true, func(e *model.Event) { e.Done = !e.Done })
		if err != nil {
			return false, err
		}
		return e.Done, nil
	}

	if !model.IsDateKey(date) {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidDate, date)
	}
	key := model.CompletionKey(id, date)
	next := make(map[string]bool, len(s.done)+1)
	for k, v := range s.done {
		next[k] = v
	}
	next[key] = !next[key]
	if err := s.put(ctx, KeyRecurrenceDone, next); err != nil {
		return false, err
	}
	s.done = next
	s.log.Debug("instance_toggled", zap.String("id", id), zap.String("date", date), zap.Bool("done", next[key]))
	return next[key], nil
}
