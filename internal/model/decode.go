package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrMalformedPayload = errors.New("model: malformed payload")

// DefaultTime fills templates persisted without a usable start time.
const DefaultTime = "00:00"

// UntitledTitle stands in for a stored template with a blank title.
const UntitledTitle = "(untitled)"

// DecodeDefaults supplies the values used for fields a stored record lacks.
type DecodeDefaults struct {
	Today string
	Now   int64
	NewID func() string
}

// DecodeEvents normalizes a loosely shaped JSON array into templates. A
// payload that is not an array yields an empty list and ErrMalformedPayload;
// non-object elements are skipped.
func DecodeEvents(raw []byte, d DecodeDefaults) ([]Event, error) {
	items, err := decodeArray(raw)
	if err != nil {
		return []Event{}, err
	}
	out := make([]Event, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, decodeEvent(obj, d))
	}
	return out, nil
}

func decodeEvent(obj map[string]any, d DecodeDefaults) Event {
	e := Event{
		ID:        stringField(obj, "id"),
		Date:      stringField(obj, "date"),
		Time:      storedClock(stringField(obj, "time"), DefaultTime),
		EndTime:   storedClock(stringField(obj, "endTime"), ""),
		Title:     stringField(obj, "title"),
		Note:      stringField(obj, "note"),
		Important: boolField(obj, "important"),
		Done:      boolField(obj, "done"),
	}
	if e.ID == "" && d.NewID != nil {
		e.ID = d.NewID()
	}
	if e.Date == "" {
		e.Date = d.Today
	}
	if strings.TrimSpace(e.Title) == "" {
		e.Title = UntitledTitle
	}
	if v, ok := intField(obj, "createdAt"); ok {
		e.CreatedAt = int64(v)
	} else {
		e.CreatedAt = d.Now
	}
	if v, ok := intField(obj, "modifiedAt"); ok {
		e.ModifiedAt = int64(v)
	}
	if v, ok := intField(obj, "sortOrder"); ok {
		n := int(v)
		e.SortOrder = &n
	}
	if rec, ok := obj["recurrence"].(map[string]any); ok {
		e.Recurrence = decodeRecurrence(rec)
	}
	return e
}

// storedClock canonicalizes a persisted clock time such as "9:00" or "0930".
// Relative forms and out-of-range values fall back to def.
func storedClock(raw, def string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Trim(raw, "0123456789:") != "" {
		return def
	}
	clock, ok := ParseTimeFlexible(raw, time.Time{})
	if !ok {
		return def
	}
	return clock
}

// decodeRecurrence returns nil for "none" or unknown rule types.
func decodeRecurrence(obj map[string]any) *Recurrence {
	t := RecurrenceType(stringField(obj, "type"))
	if !t.IsValid() || t == RecurrenceNone {
		return nil
	}
	r := &Recurrence{Type: t, Interval: 1, EndDate: stringField(obj, "endDate")}
	if !IsDateKey(r.EndDate) {
		r.EndDate = ""
	}
	if v, ok := intField(obj, "interval"); ok && v >= 1 {
		r.Interval = int(v)
	}
	if days, ok := obj["daysOfWeek"].([]any); ok {
		for _, raw := range days {
			if f, ok := raw.(float64); ok && f >= 0 && f <= 6 && f == math.Trunc(f) {
				r.DaysOfWeek = append(r.DaysOfWeek, int(f))
			}
		}
	}
	return r
}

// DecodeGoals applies the same leniency as DecodeEvents. Months outside
// 0..11 are dropped.
func DecodeGoals(raw []byte, d DecodeDefaults) ([]MonthlyGoal, error) {
	items, err := decodeArray(raw)
	if err != nil {
		return []MonthlyGoal{}, err
	}
	out := make([]MonthlyGoal, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		month, ok := intField(obj, "month")
		if !ok || month < 0 || month > 11 {
			continue
		}
		g := MonthlyGoal{ID: stringField(obj, "id"), Month: int(month), Title: stringField(obj, "title")}
		if g.ID == "" && d.NewID != nil {
			g.ID = d.NewID()
		}
		if v, ok := intField(obj, "createdAt"); ok {
			g.CreatedAt = int64(v)
		} else {
			g.CreatedAt = d.Now
		}
		out = append(out, g)
	}
	return out, nil
}

// DecodeImported is strict: any element that is not a usable record fails
// the whole payload so callers can keep the previous collection.
func DecodeImported(raw []byte) ([]ImportedEvent, error) {
	var out []ImportedEvent
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: expected array", ErrMalformedPayload)
	}
	for i, e := range out {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedPayload, i, err)
		}
	}
	return out, nil
}

// DecodeCompletion reads the recurrence completion map.
func DecodeCompletion(raw []byte) (map[string]bool, error) {
	out := map[string]bool{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]bool{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if out == nil {
		out = map[string]bool{}
	}
	return out, nil
}

func decodeArray(raw []byte) ([]any, error) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: expected array", ErrMalformedPayload)
	}
	return items, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func intField(obj map[string]any, key string) (float64, bool) {
	f, ok := obj[key].(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Trunc(f), true
}
