package agenda

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandeepkv93/timetable/internal/model"
)

type MonthGroup struct {
	Month int
	Goals []model.MonthlyGoal
}

func (s *Store) Goals() []model.MonthlyGoal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.MonthlyGoal(nil), s.goals...)
}

func (s *Store) AddGoal(ctx context.Context, month int, title string) (model.MonthlyGoal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.MonthlyGoal{}, ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g := model.MonthlyGoal{ID: s.newID(), Month: month, Title: title, CreatedAt: s.nowMillis()}
	if err := g.Validate(); err != nil {
		return model.MonthlyGoal{}, err
	}
	next := append(append([]model.MonthlyGoal(nil), s.goals...), g)
	if err := s.put(ctx, KeyMonthlyGoals, next); err != nil {
		return model.MonthlyGoal{}, err
	}
	s.goals = next
	return g, nil
}

// RemoveGoal returns ErrGoalNotFound for unknown ids.
func (s *Store) RemoveGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.MonthlyGoal, 0, len(s.goals))
	for _, g := range s.goals {
		if g.ID != id {
			next = append(next, g)
		}
	}
	if len(next) == len(s.goals) {
		return fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}
	if err := s.put(ctx, KeyMonthlyGoals, next); err != nil {
		return err
	}
	s.goals = next
	return nil
}

// GoalsByMonth buckets goals into months 0..11, dropping empty months that
// precede currentMonth.
func (s *Store) GoalsByMonth(currentMonth int) []MonthGroup {
	goals := s.Goals()
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].CreatedAt < goals[j].CreatedAt })

	buckets := make([][]model.MonthlyGoal, 12)
	for _, g := range goals {
		buckets[g.Month] = append(buckets[g.Month], g)
	}
	out := make([]MonthGroup, 0, 12)
	for m := 0; m < 12; m++ {
		if len(buckets[m]) == 0 && m < currentMonth {
			continue
		}
		out = append(out, MonthGroup{Month: m, Goals: buckets[m]})
	}
	return out
}
