package scheduler

import (
	"container/heap"

	"github.com/sandeepkv93/timetable/internal/model"
)

// upcomingSearchDays caps how far ahead Upcoming walks.
const upcomingSearchDays = 366

type queueItem struct {
	inst model.Instance
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i].inst, pq[j].inst
	if a.InstanceDate != b.InstanceDate {
		return a.InstanceDate < b.InstanceDate
	}
	if c := Compare(a, b); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Upcoming merges the occurrence streams of events into the next limit
// instances on or after from, ordered by date then the day comparator.
func Upcoming(events []model.Event, from string, limit int) []model.Instance {
	out := make([]model.Instance, 0, max(limit, 0))
	if limit <= 0 || !model.IsDateKey(from) {
		return out
	}
	horizon, _ := model.AddDays(from, upcomingSearchDays)

	pq := make(priorityQueue, 0, len(events))
	for _, e := range events {
		if next, ok := e.NextOnOrAfter(from); ok && next <= horizon {
			pq = append(pq, queueItem{inst: model.Instance{Event: e.Clone(), InstanceDate: next}})
		}
	}
	heap.Init(&pq)

	for pq.Len() > 0 && len(out) < limit {
		item := heap.Pop(&pq).(queueItem)
		out = append(out, item.inst)
		if !item.inst.IsRecurring() {
			continue
		}
		after, err := model.AddDays(item.inst.InstanceDate, 1)
		if err != nil {
			continue
		}
		if next, ok := item.inst.NextOnOrAfter(after); ok && next <= horizon {
			heap.Push(&pq, queueItem{inst: model.Instance{Event: item.inst.Event.Clone(), InstanceDate: next}})
		}
	}
	return out
}
