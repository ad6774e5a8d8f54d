package agenda

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/storage"
)

func TestGoalsByMonthHidesPastEmptyMonths(t *testing.T) {
	s, _ := openTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()
	_, err := s.AddGoal(ctx, 0, "January goal")
	require.NoError(t, err)
	_, err = s.AddGoal(ctx, 5, "June goal")
	require.NoError(t, err)

	groups := s.GoalsByMonth(3)
	var months []int
	for _, g := range groups {
		months = append(months, g.Month)
	}
	assert.Equal(t, []int{0, 3, 4, 5, 6, 7, 8, 9, 10, 11}, months)
	assert.Len(t, groups[0].Goals, 1)
	assert.Empty(t, groups[1].Goals)
}

func TestGoalValidationAndRemoval(t *testing.T) {
	s, _ := openTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	_, err := s.AddGoal(ctx, 12, "Bad month")
	assert.ErrorIs(t, err, model.ErrInvalidMonth)
	_, err = s.AddGoal(ctx, 1, "  ")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	g, err := s.AddGoal(ctx, 1, "Ship it")
	require.NoError(t, err)
	require.NoError(t, s.RemoveGoal(ctx, g.ID))
	assert.ErrorIs(t, s.RemoveGoal(ctx, g.ID), ErrGoalNotFound)
	assert.Empty(t, s.Goals())
}
