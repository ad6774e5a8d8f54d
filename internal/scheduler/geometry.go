package scheduler

import (
	"time"

	"github.com/sandeepkv93/timetable/internal/model"
)

const (
	DefaultDurationMinutes = 60
	MinDurationMinutes     = 30
	HoursPerDay            = 24
)

// Geometry places a block on a vertical axis where one hour spans unitHeight.
type Geometry struct {
	StartMinutes    int
	DurationMinutes int
	Top             float64
	Height          float64
}

// BlockGeometry computes the block for inst. An end time before the start
// collapses to the 30 minute floor instead of being rejected.
func BlockGeometry(inst model.Instance, unitHeight float64) Geometry {
	start := inst.StartMinutes()
	duration := DefaultDurationMinutes
	if end, ok := inst.EndMinutes(); ok {
		duration = max(end-start, MinDurationMinutes)
	}
	minHeight := float64(MinDurationMinutes) / 60 * unitHeight
	return Geometry{
		StartMinutes:    start,
		DurationMinutes: duration,
		Top:             float64(start) / 60 * unitHeight,
		Height:          max(float64(duration)/60*unitHeight, minHeight),
	}
}

// EndMinutes is the minute the block stops covering, clipped to the day.
func (g Geometry) EndMinutes() int {
	return min(g.StartMinutes+g.DurationMinutes, HoursPerDay*60)
}

// NowIndicator returns the indicator offset when date is today's key.
func NowIndicator(date string, now time.Time, unitHeight float64) (float64, bool) {
	if date != model.DateKey(now) {
		return 0, false
	}
	minutes := now.Hour()*60 + now.Minute()
	return float64(minutes) / 60 * unitHeight, true
}
