package scheduler

import (
	"sort"

	"github.com/sandeepkv93/timetable/internal/model"
)

type Order string

const (
	// OrderTime sorts by start minute, then creation time.
	OrderTime Order = "time"
	// OrderManual puts instances with a sort order first, ascending, then falls back to OrderTime.
	OrderManual Order = "manual"
)

// Compare orders instances by start minute then createdAt.
func Compare(a, b model.Instance) int {
	am, bm := a.StartMinutes(), b.StartMinutes()
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	case a.CreatedAt < b.CreatedAt:
		return -1
	case a.CreatedAt > b.CreatedAt:
		return 1
	default:
		return 0
	}
}

func CompareManual(a, b model.Instance) int {
	switch {
	case a.SortOrder != nil && b.SortOrder != nil:
		if *a.SortOrder != *b.SortOrder {
			if *a.SortOrder < *b.SortOrder {
				return -1
			}
			return 1
		}
	case a.SortOrder != nil:
		return -1
	case b.SortOrder != nil:
		return 1
	}
	return Compare(a, b)
}

// SortInstances sorts in place; equal elements keep their input order.
func SortInstances(list []model.Instance, order Order) {
	cmp := Compare
	if order == OrderManual {
		cmp = CompareManual
	}
	sort.SliceStable(list, func(i, j int) bool {
		return cmp(list[i], list[j]) < 0
	})
}
