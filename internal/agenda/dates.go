package agenda

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/model"
)

func (s *Store) Today() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.today
}

func (s *Store) SelectedDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDate
}

func (s *Store) SelectDate(ctx context.Context, date string) error {
	if !model.IsDateKey(date) {
		return fmt.Errorf("%w: %q", model.ErrInvalidDate, date)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(ctx, date)
}

func (s *Store) selectLocked(ctx context.Context, date string) error {
	if err := s.put(ctx, KeySelectedDate, date); err != nil {
		return err
	}
	s.selectedDate = date
	return nil
}

func (s *Store) ShiftDate(ctx context.Context, days int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := model.AddDays(s.selectedDate, days)
	if err != nil {
		return "", err
	}
	if err := s.selectLocked(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Store) GoToday(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(ctx, s.today)
}

func (s *Store) WeekStart() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weekStart
}

// SetWeekStart stores the Monday of date's week.
func (s *Store) SetWeekStart(ctx context.Context, date string) (string, error) {
	monday, err := model.WeekStart(date)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(ctx, KeyWeekStart, monday); err != nil {
		return "", err
	}
	s.weekStart = monday
	return monday, nil
}

func (s *Store) ShiftWeek(ctx context.Context, weeks int) (string, error) {
	next, err := model.AddWeeks(s.WeekStart(), weeks)
	if err != nil {
		return "", err
	}
	return s.SetWeekStart(ctx, next)
}

// RecheckToday recomputes today's key from the clock. When the day has not
// changed it does nothing. Otherwise a selection that pointed at the old
// today follows to the new one.
func (s *Store) RecheckToday(ctx context.Context) (bool, error) {
	current := model.DateKey(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if current == s.today {
		return false, nil
	}
	previous := s.today
	s.today = current
	s.log.Info("day_rolled_over", zap.String("from", previous), zap.String("to", current))
	if s.selectedDate == previous {
		if err := s.selectLocked(ctx, current); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (s *Store) CalendarURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calendarURL
}

// SetCalendarURL stores the feed address; empty disables sync.
func (s *Store) SetCalendarURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(ctx, KeyCalendarURL, url); err != nil {
		return err
	}
	s.calendarURL = url
	return nil
}
