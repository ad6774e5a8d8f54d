package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date key layout.
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

var (
	ErrInvalidDate = errors.New("model: invalid date key")
	ErrInvalidTime = errors.New("model: invalid time")
)

var (
	dateKeyPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	digitRunPattern  = regexp.MustCompile(`^(\d{3,4})$`)
	relativePattern  = regexp.MustCompile(`^(?:\+|in\s+)(\d+)\s*(m|h)?$`)
	timeChipPattern  = regexp.MustCompile(`^\+(\d+)$`)
	strictTimeFormat = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// DateKey formats t's own calendar fields as YYYY-MM-DD. No zone conversion
// happens; callers pass a time already in the zone they care about.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey returns midnight UTC for a date key. Date-only arithmetic runs
// in UTC so daylight saving transitions never shift the day.
func ParseDateKey(key string) (time.Time, error) {
	if !dateKeyPattern.MatchString(key) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	t, err := time.ParseInLocation(DateLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

func IsDateKey(key string) bool {
	_, err := ParseDateKey(key)
	return err == nil
}

func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, n)), nil
}

func AddWeeks(key string, n int) (string, error) {
	return AddDays(key, 7*n)
}

// AddMonths moves by whole months using time.AddDate, so Jan 31 + 1 month
// normalizes into March. Recurrence matching does not use it.
func AddMonths(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, n, 0)), nil
}

// DaysBetween returns the whole-day difference to - from.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDateKey(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDateKey(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// MonthsBetween returns (to.year*12 + to.month) - (from.year*12 + from.month).
func MonthsBetween(from, to string) (int, error) {
	a, err := ParseDateKey(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDateKey(to)
	if err != nil {
		return 0, err
	}
	return (b.Year()*12 + int(b.Month())) - (a.Year()*12 + int(a.Month())), nil
}

// WeekStart normalizes a date key to the Monday of its week.
func WeekStart(key string) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	offset := (int(t.Weekday()) + 6) % 7
	return DateKey(t.AddDate(0, 0, -offset)), nil
}

func Weekday(key string) (time.Weekday, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// TimeToMinutes converts "H:MM" or "HH:MM" to minutes past midnight.
// Malformed or out-of-range input maps to 0.
func TimeToMinutes(s string) int {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h >= 24 || min >= 60 {
		return 0
	}
	return h*60 + min
}

// MinutesToTime formats minutes past midnight as HH:MM, wrapping at 24h.
func MinutesToTime(total int) string {
	total %= minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// IsClockTime reports whether s is a strict HH:MM value with hour<24 and minute<60.
func IsClockTime(s string) bool {
	if !strictTimeFormat.MatchString(s) {
		return false
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h < 24 && m < 60
}

func ClockOf(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ParseTimeFlexible normalizes user time input to HH:MM. Accepted forms are
// H:MM, HH:MM, HMM, HHMM, "now", "+N", "+Nm", "+Nh", "in N" and "in Nh";
// relative forms resolve against now. ok is false when nothing matched or the
// hour/minute is out of range.
func ParseTimeFlexible(raw string, now time.Time) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if s == "now" {
		return ClockOf(now), true
	}
	if m := relativePattern.FindStringSubmatch(s); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		if m[2] == "h" {
			return ClockOf(now.Add(time.Duration(amount) * time.Hour)), true
		}
		return ClockOf(now.Add(time.Duration(amount) * time.Minute)), true
	}

	h, min := -1, -1
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		h, _ = strconv.Atoi(m[1])
		min, _ = strconv.Atoi(m[2])
	} else if m := digitRunPattern.FindStringSubmatch(s); m != nil {
		v := m[1]
		if len(v) == 3 {
			h, _ = strconv.Atoi(v[:1])
			min, _ = strconv.Atoi(v[1:])
		} else {
			h, _ = strconv.Atoi(v[:2])
			min, _ = strconv.Atoi(v[2:])
		}
	}
	if h < 0 || h >= 24 || min < 0 || min >= 60 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, min), true
}

// RoundTo5Minutes drops seconds and rounds minutes to the nearest multiple of five.
func RoundTo5Minutes(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	rem := t.Minute() % 5
	if rem >= 3 {
		return t.Add(time.Duration(5-rem) * time.Minute)
	}
	return t.Add(-time.Duration(rem) * time.Minute)
}

// TimeChip resolves a quick-pick chip ("now" or "+N" minutes) to a rounded HH:MM.
func TimeChip(chip string, now time.Time) (string, bool) {
	if chip == "now" {
		return ClockOf(RoundTo5Minutes(now)), true
	}
	m := timeChipPattern.FindStringSubmatch(chip)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	return ClockOf(RoundTo5Minutes(now.Add(time.Duration(n) * time.Minute))), true
}
