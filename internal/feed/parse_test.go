package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timetable/internal/model"
)

func calendar(events ...string) []byte {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//timetable//test//EN"}
	for _, ev := range events {
		lines = append(lines, "BEGIN:VEVENT")
		lines = append(lines, strings.Split(strings.TrimSpace(ev), "\n")...)
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR")
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func utcParser() *Parser {
	n := 0
	return NewParser(nil, WithLocation(time.UTC), WithParserIDs(func() string {
		n++
		return "generated-" + string(rune('0'+n))
	}))
}

func byID(records []model.ImportedEvent) map[string]model.ImportedEvent {
	out := make(map[string]model.ImportedEvent, len(records))
	for _, r := range records {
		out[r.ID] = r
	}
	return out
}

func TestParseTimedEvent(t *testing.T) {
	body := calendar(`
UID:lec-1
SUMMARY:Algorithms
DTSTART:20260122T100000Z
DTEND:20260122T113000Z
DESCRIPTION:Teachers: - Dr Ada Lovelace\nActivity Type: Lecture (weekly)
LOCATION:Room 101`)

	got, err := utcParser().Parse(body, Window{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.ImportedEvent{
		ID:      "lec-1",
		Date:    "2026-01-22",
		Time:    "10:00",
		EndTime: "11:30",
		Title:   "Algorithms",
		Note:    "Dr Ada Lovelace | Lecture | Room 101",
	}, got[0])
}

func TestParseAllDayAndFloating(t *testing.T) {
	body := calendar(`
UID:holiday
SUMMARY:Reading week
DTSTART;VALUE=DATE:20260123
DTEND;VALUE=DATE:20260124`, `
UID:floating
SUMMARY:Gym
DTSTART:20260123T071500`)

	got, err := utcParser().Parse(body, Window{})
	require.NoError(t, err)
	records := byID(got)
	require.Len(t, records, 2)

	assert.Equal(t, "2026-01-23", records["holiday"].Date)
	assert.Equal(t, "00:00", records["holiday"].Time)
	assert.Empty(t, records["holiday"].EndTime)

	assert.Equal(t, "07:15", records["floating"].Time)
	assert.Empty(t, records["floating"].EndTime)
}

func TestParseSkipsBadEvents(t *testing.T) {
	body := calendar(`
UID:no-summary
DTSTART:20260122T100000Z`, `
UID:no-start
SUMMARY:Orphan`, `
SUMMARY:No uid
DTSTART:20260122T120000Z`)

	got, err := utcParser().Parse(body, Window{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "generated-1", got[0].ID)
	assert.Equal(t, "No uid", got[0].Title)
}

func TestParseEmptyBody(t *testing.T) {
	_, err := Parse([]byte("  \n"), Window{})
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestParseExpandsRecurrenceInsideWindow(t *testing.T) {
	body := calendar(`
UID:seminar
SUMMARY:Seminar
DTSTART:20260105T090000Z
DTEND:20260105T100000Z
RRULE:FREQ=WEEKLY;COUNT=6
EXDATE:20260112T090000Z`, `
UID:seminar
RECURRENCE-ID:20260119T090000Z
SUMMARY:Seminar (moved)
DTSTART:20260119T140000Z
DTEND:20260119T150000Z`)

	window := Window{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	got, err := utcParser().Parse(body, window)
	require.NoError(t, err)

	records := byID(got)
	assert.Len(t, records, 3)
	assert.Contains(t, records, "seminar@2026-01-05")
	assert.NotContains(t, records, "seminar@2026-01-12")
	assert.Contains(t, records, "seminar@2026-01-26")

	moved := records["seminar@2026-01-19"]
	assert.Equal(t, "Seminar (moved)", moved.Title)
	assert.Equal(t, "14:00", moved.Time)
	assert.Equal(t, "15:00", moved.EndTime)
}

func TestParseWindowFiltersSingleEvents(t *testing.T) {
	body := calendar(`
UID:old
SUMMARY:Old
DTSTART:20250101T090000Z`, `
UID:soon
SUMMARY:Soon
DTSTART:20260110T090000Z`)

	now := time.Date(2026, 1, 8, 12, 0, 0, 0, time.UTC)
	got, err := utcParser().Parse(body, WindowAround(now, 7, 60))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "soon", got[0].ID)
}

func TestWindowAround(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)
	w := WindowAround(now, 7, 60)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), w.From)
	assert.True(t, w.Contains(time.Date(2026, 5, 9, 23, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, Window{}.Contains(time.Time{}))
}
