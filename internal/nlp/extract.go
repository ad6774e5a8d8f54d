// Package nlp pulls schedule hints out of a free-text event title.
package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/timetable/internal/model"
)

// Extraction is the result of a best-effort parse. Empty strings mean "not found".
type Extraction struct {
	Time       string
	EndTime    string
	Date       string
	Recurrence model.RecurrenceType
	CleanTitle string
	HasAny     bool
}

// Rule returns the extracted recurrence as a rule with interval 1, or nil.
func (x Extraction) Rule() *model.Recurrence {
	if x.Recurrence == "" {
		return nil
	}
	return &model.Recurrence{Type: x.Recurrence, Interval: 1}
}

const clockExpr = `(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`

var (
	atPattern    = regexp.MustCompile(`(?i)\bat\s+` + clockExpr + `\b`)
	rangePattern = regexp.MustCompile(`(?i)\bfrom\s+` + clockExpr + `\s*(?:-|to)\s*` + clockExpr + `\b`)
	barePattern  = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)

	todayPattern    = regexp.MustCompile(`(?i)\btoday\b`)
	tomorrowPattern = regexp.MustCompile(`(?i)\btomorrow\b`)
	nextDayPattern  = regexp.MustCompile(`(?i)\bnext\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun)\b`)
	monthDayPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)

	recurrencePatterns = []struct {
		re  *regexp.Regexp
		typ model.RecurrenceType
	}{
		{regexp.MustCompile(`(?i)\b(?:every\s+day|daily)\b`), model.RecurrenceDaily},
		{regexp.MustCompile(`(?i)\b(?:every\s+week|weekly)\b`), model.RecurrenceWeekly},
		{regexp.MustCompile(`(?i)\b(?:every\s+month|monthly)\b`), model.RecurrenceMonthly},
	}
)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// Extract parses text relative to now. Time patterns are tried as "at",
// then "from .. to ..", then a bare am/pm time; dates as today, tomorrow,
// "next <weekday>", then "<month> <day>"; recurrence as daily, weekly,
// monthly. Each matched span is removed from the title.
func Extract(text string, now time.Time) Extraction {
	var x Extraction
	rest := text

	rest = extractTime(rest, &x)
	rest = extractDate(rest, now, &x)
	for _, p := range recurrencePatterns {
		if loc := p.re.FindStringIndex(rest); loc != nil {
			x.Recurrence = p.typ
			rest = cut(rest, loc)
			break
		}
	}

	x.CleanTitle = strings.Join(strings.Fields(rest), " ")
	x.HasAny = x.Time != "" || x.Date != "" || x.Recurrence != ""
	return x
}

func extractTime(text string, x *Extraction) string {
	for _, m := range atPattern.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, m)
		if clock, ok := toClock(g[1], g[2], g[3]); ok {
			x.Time = clock
			return cut(text, m[:2])
		}
	}
	for _, m := range rangePattern.FindAllStringSubmatchIndex(text, -1) {
		if start, end, ok := rangeClocks(groups(text, m)); ok {
			x.Time, x.EndTime = start, end
			return cut(text, m[:2])
		}
	}
	for _, m := range barePattern.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, m)
		if clock, ok := toClock(g[1], g[2], g[3]); ok {
			x.Time = clock
			return cut(text, m[:2])
		}
	}
	return text
}

// rangeClocks resolves both ends of a range. A start without am/pm takes the
// end's, unless that would put it after the end ("from 11 to 1pm").
func rangeClocks(g []string) (string, string, bool) {
	startMer, endMer := g[3], g[6]
	inherited := startMer == "" && endMer != ""
	if inherited {
		startMer = endMer
	}
	end, ok := toClock(g[4], g[5], endMer)
	if !ok {
		return "", "", false
	}
	start, ok := toClock(g[1], g[2], startMer)
	if ok && inherited && model.TimeToMinutes(start) > model.TimeToMinutes(end) {
		start, ok = toClock(g[1], g[2], "am")
	}
	if !ok {
		return "", "", false
	}
	return start, end, true
}

func extractDate(text string, now time.Time, x *Extraction) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if loc := todayPattern.FindStringIndex(text); loc != nil {
		x.Date = model.DateKey(today)
		return cut(text, loc)
	}
	if loc := tomorrowPattern.FindStringIndex(text); loc != nil {
		x.Date = model.DateKey(today.AddDate(0, 0, 1))
		return cut(text, loc)
	}
	if m := nextDayPattern.FindStringSubmatchIndex(text); m != nil {
		name := strings.ToLower(text[m[2]:m[3]])
		target := weekdays[name[:3]]
		days := (int(target)-int(today.Weekday())+7)%7 + 7
		x.Date = model.DateKey(today.AddDate(0, 0, days))
		return cut(text, m[:2])
	}
	if m := monthDayPattern.FindStringSubmatchIndex(text); m != nil {
		month := months[strings.ToLower(text[m[2]:m[3]])[:3]]
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		if date, ok := monthDay(today.Year(), month, day); ok {
			if date.Before(today) {
				date, ok = monthDay(today.Year()+1, month, day)
			}
			if ok {
				x.Date = model.DateKey(date)
				return cut(text, m[:2])
			}
		}
	}
	return text
}

func monthDay(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// toClock converts an hour, optional minutes and optional meridiem to HH:MM.
func toClock(hour, minute, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return "", false
	}
	m := 0
	if minute != "" {
		if m, err = strconv.Atoi(minute); err != nil {
			return "", false
		}
	}
	switch strings.ToLower(meridiem) {
	case "am":
		if h < 1 || h > 12 {
			return "", false
		}
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 1 || h > 12 {
			return "", false
		}
		if h != 12 {
			h += 12
		}
	}
	if h > 23 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// groups returns the submatches for an index slice; unmatched groups are "".
func groups(text string, idx []int) []string {
	out := make([]string, len(idx)/2)
	for i := range out {
		if idx[2*i] >= 0 {
			out[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return out
}

func cut(text string, loc []int) string {
	return text[:loc[0]] + " " + text[loc[1]:]
}
