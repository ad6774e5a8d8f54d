package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")
	ErrInvalidInterval       = errors.New("model: invalid recurrence interval")
	ErrInvalidMonth          = errors.New("model: invalid goal month")
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// Recurrence is a fixed-interval rule anchored at the owning event's date.
// DaysOfWeek is persisted but not consulted during expansion.
type Recurrence struct {
	Type       RecurrenceType `json:"type"`
	Interval   int            `json:"interval"`
	EndDate    string         `json:"endDate,omitempty"`
	DaysOfWeek []int          `json:"daysOfWeek,omitempty"`
}

// Active reports whether the rule produces anything beyond the anchor date.
func (r *Recurrence) Active() bool {
	return r != nil && r.Type != RecurrenceNone && r.Type != ""
}

func (r Recurrence) Validate() error {
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, r.Type)
	}
	if r.Type == RecurrenceNone {
		return nil
	}
	if r.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.Interval)
	}
	if r.EndDate != "" && !IsDateKey(r.EndDate) {
		return fmt.Errorf("%w: end date %q", ErrInvalidDate, r.EndDate)
	}
	seen := make(map[int]bool, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("model: weekday out of range: %d", d)
		}
		if seen[d] {
			return errors.New("model: duplicate weekday in recurrence")
		}
		seen[d] = true
	}
	return nil
}

// Clone returns a deep copy; nil stays nil.
func (r *Recurrence) Clone() *Recurrence {
	if r == nil {
		return nil
	}
	out := *r
	if r.DaysOfWeek != nil {
		out.DaysOfWeek = append([]int(nil), r.DaysOfWeek...)
	}
	return &out
}

// Event is a stored template. For recurring events Date is the anchor and
// Done is ignored; completion lives in the per-instance map instead.
type Event struct {
	ID         string      `json:"id"`
	Date       string      `json:"date"`
	Time       string      `json:"time"`
	EndTime    string      `json:"endTime,omitempty"`
	Title      string      `json:"title"`
	Note       string      `json:"note"`
	Important  bool        `json:"important"`
	Done       bool        `json:"done"`
	CreatedAt  int64       `json:"createdAt"`
	ModifiedAt int64       `json:"modifiedAt,omitempty"`
	SortOrder  *int        `json:"sortOrder,omitempty"`
	Recurrence *Recurrence `json:"recurrence"`
}

func (e Event) IsRecurring() bool {
	return e.Recurrence.Active()
}

// Clone returns a deep copy; instances never share pointers with the template.
func (e Event) Clone() Event {
	out := e
	if e.SortOrder != nil {
		v := *e.SortOrder
		out.SortOrder = &v
	}
	out.Recurrence = e.Recurrence.Clone()
	return out
}

func (e Event) StartMinutes() int {
	return TimeToMinutes(e.Time)
}

// EndMinutes returns the end minute-of-day and whether an end time is set.
func (e Event) EndMinutes() (int, bool) {
	if e.EndTime == "" {
		return 0, false
	}
	return TimeToMinutes(e.EndTime), true
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if !IsDateKey(e.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, e.Date)
	}
	if !IsClockTime(e.Time) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, e.Time)
	}
	if e.EndTime != "" && !IsClockTime(e.EndTime) {
		return fmt.Errorf("%w: end %q", ErrInvalidTime, e.EndTime)
	}
	if e.Recurrence != nil {
		if err := e.Recurrence.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Instance is one occurrence of a template on InstanceDate.
type Instance struct {
	Event
	InstanceDate string `json:"instanceDate"`
	Imported     bool   `json:"imported,omitempty"`
}

// CompletionKey is the recurrence completion map key for one instance.
func CompletionKey(id, date string) string {
	return id + ":" + date
}

// ImportedEvent is a read-only record delivered by the calendar feed.
type ImportedEvent struct {
	ID        string `json:"id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	Title     string `json:"title"`
	Note      string `json:"note"`
	Important bool   `json:"important"`
	Done      bool   `json:"done"`
}

func (e ImportedEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: imported event id is required")
	}
	if !IsDateKey(e.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, e.Date)
	}
	if !IsClockTime(e.Time) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, e.Time)
	}
	if e.EndTime != "" && !IsClockTime(e.EndTime) {
		return fmt.Errorf("%w: end %q", ErrInvalidTime, e.EndTime)
	}
	return nil
}

func (e ImportedEvent) AsInstance() Instance {
	return Instance{
		Event: Event{
			ID:        e.ID,
			Date:      e.Date,
			Time:      e.Time,
			EndTime:   e.EndTime,
			Title:     e.Title,
			Note:      e.Note,
			Important: e.Important,
			Done:      e.Done,
		},
		InstanceDate: e.Date,
		Imported:     true,
	}
}

// MonthlyGoal belongs to a month index 0..11, independent of year.
type MonthlyGoal struct {
	ID        string `json:"id"`
	Month     int    `json:"month"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
}

func (g MonthlyGoal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("model: goal id is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("model: goal title is required")
	}
	if g.Month < 0 || g.Month > 11 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, g.Month)
	}
	return nil
}
