package model

import (
	"errors"
	"testing"
	"time"
)

func TestTimeToMinutes(t *testing.T) {
	cases := map[string]int{
		"09:05":      545,
		"00:00":      0,
		"23:59":      1439,
		"7:30":       450,
		"not-a-time": 0,
		"24:00":      0,
		"12:60":      0,
		"":           0,
	}
	for in, want := range cases {
		if got := TimeToMinutes(in); got != want {
			t.Fatalf("TimeToMinutes(%q) = %d want %d", in, got, want)
		}
	}
}

func TestMinutesToTimeWraps(t *testing.T) {
	if got := MinutesToTime(545); got != "09:05" {
		t.Fatalf("unexpected %s", got)
	}
	if got := MinutesToTime(1440 + 30); got != "00:30" {
		t.Fatalf("unexpected %s", got)
	}
	if got := MinutesToTime(-30); got != "23:30" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestParseTimeFlexible(t *testing.T) {
	now := time.Date(2026, 2, 9, 14, 7, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"930", "09:30", true},
		{"0930", "09:30", true},
		{"9:30", "09:30", true},
		{"17:45", "17:45", true},
		{"25:00", "", false},
		{"1260", "", false},
		{"abc", "", false},
		{"", "", false},
		{"now", "14:07", true},
		{"+30", "14:37", true},
		{"+2h", "16:07", true},
		{"in 15", "14:22", true},
		{"in 1h", "15:07", true},
		{"+600", "00:07", true},
	}
	for _, tc := range cases {
		got, ok := ParseTimeFlexible(tc.in, now)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseTimeFlexible(%q) = (%q,%v) want (%q,%v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDateArithmeticAcrossBoundaries(t *testing.T) {
	got, err := AddDays("2026-02-28", 1)
	if err != nil || got != "2026-03-01" {
		t.Fatalf("AddDays got %q err %v", got, err)
	}
	got, _ = AddWeeks("2025-12-29", 1)
	if got != "2026-01-05" {
		t.Fatalf("AddWeeks got %q", got)
	}
	got, _ = AddDays("2026-03-08", 1)
	if got != "2026-03-09" {
		t.Fatalf("AddDays over DST got %q", got)
	}
	months, _ := MonthsBetween("2025-11-30", "2026-02-01")
	if months != 3 {
		t.Fatalf("MonthsBetween got %d", months)
	}
	days, _ := DaysBetween("2026-01-01", "2026-03-01")
	if days != 59 {
		t.Fatalf("DaysBetween got %d", days)
	}
	if _, err := AddDays("2026-02-30", 1); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	cases := map[string]string{
		"2026-01-05": "2026-01-05",
		"2026-01-08": "2026-01-05",
		"2026-01-11": "2026-01-05",
		"2026-01-01": "2025-12-29",
	}
	for in, want := range cases {
		got, err := WeekStart(in)
		if err != nil || got != want {
			t.Fatalf("WeekStart(%s) = %s, %v want %s", in, got, err, want)
		}
	}
}

func TestDateKeyUsesCalendarFields(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	d := time.Date(2026, 2, 1, 1, 0, 0, 0, loc)
	if got := DateKey(d); got != "2026-02-01" {
		t.Fatalf("DateKey converted zones: %s", got)
	}
}

func TestTimeChips(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 2, 40, 0, time.UTC)
	if got, ok := TimeChip("now", now); !ok || got != "09:00" {
		t.Fatalf("now chip got %q", got)
	}
	if got, ok := TimeChip("+30", now); !ok || got != "09:30" {
		t.Fatalf("+30 chip got %q", got)
	}
	if got := RoundTo5Minutes(time.Date(2026, 2, 9, 9, 3, 0, 0, time.UTC)); got.Minute() != 5 {
		t.Fatalf("expected round up, got %v", got)
	}
	if _, ok := TimeChip("later", now); ok {
		t.Fatal("unknown chip should fail")
	}
}
