package feed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/logging"
	"github.com/sandeepkv93/timetable/internal/model"
)

var (
	ErrEmptyBody = errors.New("feed: empty calendar body")
	errNoSummary = errors.New("missing SUMMARY")
	errNoStart   = errors.New("missing DTSTART")
)

// Window bounds which occurrences are imported. A zero bound is open.
type Window struct {
	From time.Time
	To   time.Time
}

// WindowAround returns [day-lookback, day+horizon] in whole days.
func WindowAround(now time.Time, lookbackDays, horizonDays int) Window {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Window{
		From: day.AddDate(0, 0, -lookbackDays),
		To:   day.AddDate(0, 0, horizonDays+1).Add(-time.Nanosecond),
	}
}

func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// vevent is the subset of a VEVENT the importer cares about.
type vevent struct {
	UID         string
	Summary     string
	Description string
	Location    string

	Start  time.Time
	End    time.Time
	HasEnd bool
	AllDay bool

	RRule        string
	ExDates      []time.Time
	RecurrenceID *time.Time
}

// Parser turns an iCalendar payload into imported records.
type Parser struct {
	log      *zap.Logger
	loc      *time.Location
	validate *validator.Validate
	newID    func() string
}

type ParserOption func(*Parser)

// WithLocation sets the display zone. Floating times are read in it and
// all-day events keep their date.
func WithLocation(loc *time.Location) ParserOption {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

func WithParserIDs(newID func() string) ParserOption {
	return func(p *Parser) {
		if newID != nil {
			p.newID = newID
		}
	}
}

func NewParser(log *zap.Logger, opts ...ParserOption) *Parser {
	p := &Parser{
		log:      logging.OrNop(log),
		loc:      time.Local,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses body with a default parser.
func Parse(body []byte, window Window) ([]model.ImportedEvent, error) {
	return NewParser(nil).Parse(body, window)
}

// Parse returns one record per occurrence inside window. An unparsable
// calendar is an error; a single bad VEVENT is logged and skipped.
func (p *Parser) Parse(body []byte, window Window) ([]model.ImportedEvent, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed: parse calendar: %w", err)
	}

	var parsed []vevent
	for i, comp := range cal.Events() {
		ev, err := p.parseVEvent(comp)
		if err != nil {
			p.log.Warn("feed_vevent_skipped", zap.Int("index", i), zap.Error(err))
			continue
		}
		parsed = append(parsed, ev)
	}

	occurrences := p.expand(parsed, window)
	out := make([]model.ImportedEvent, 0, len(occurrences))
	for _, occ := range occurrences {
		rec := p.normalize(occ)
		if err := p.validate.Struct(rec); err != nil {
			p.log.Warn("feed_record_invalid", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	p.log.Info("feed_parsed", zap.Int("vevents", len(parsed)), zap.Int("records", len(out)))
	return out, nil
}

func (p *Parser) parseVEvent(ve *ical.VEvent) (vevent, error) {
	var out vevent

	summary := propValue(ve, ical.ComponentPropertySummary)
	if summary == "" {
		return out, errNoSummary
	}
	out.Summary = unescapeText(summary)
	out.Description = unescapeText(propValue(ve, ical.ComponentPropertyDescription))
	out.Location = unescapeText(propValue(ve, ical.ComponentPropertyLocation))

	out.UID = strings.TrimSpace(propValue(ve, ical.ComponentPropertyUniqueId))
	if out.UID == "" {
		out.UID = p.newID()
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil || strings.TrimSpace(startProp.Value) == "" {
		return out, errNoStart
	}
	start, allDay, err := p.propTime(ve, startProp, true)
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	out.Start = start
	out.AllDay = allDay

	if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil && strings.TrimSpace(endProp.Value) != "" {
		end, _, err := p.propTime(ve, endProp, false)
		if err != nil {
			return out, fmt.Errorf("DTEND: %w", err)
		}
		out.End = end
		out.HasEnd = true
	}

	out.RRule = strings.TrimSpace(propValue(ve, ical.ComponentPropertyRrule))
	for _, ex := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(ex.Value, ",") {
			t, _, err := parseWallClock(strings.TrimSpace(part), p.locFor(ex.ICalParameters))
			if err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}
	if rid := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); rid != nil {
		if t, _, err := parseWallClock(rid.Value, p.locFor(rid.ICalParameters)); err == nil {
			out.RecurrenceID = &t
		}
	}
	return out, nil
}

// propTime resolves a DTSTART/DTEND in its own zone. Recurrences expand in
// that zone; conversion to the display zone happens per occurrence.
func (p *Parser) propTime(ve *ical.VEvent, prop *ical.IANAProperty, isStart bool) (time.Time, bool, error) {
	raw := strings.TrimSpace(prop.Value)
	if strings.HasSuffix(raw, "Z") {
		var (
			t   time.Time
			err error
		)
		if isStart {
			t, err = ve.GetStartAt()
		} else {
			t, err = ve.GetEndAt()
		}
		return t, false, err
	}
	return parseWallClock(raw, p.locFor(prop.ICalParameters))
}

func (p *Parser) locFor(params map[string][]string) *time.Location {
	if tz, ok := params[string(ical.ParameterTzid)]; ok && len(tz) > 0 {
		if loc, err := time.LoadLocation(tz[0]); err == nil {
			return loc
		}
	}
	return p.loc
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if prop := ve.GetProperty(name); prop != nil {
		return prop.Value
	}
	return ""
}

// parseWallClock reads DATE, DATE-TIME and UTC DATE-TIME forms.
func parseWallClock(v string, loc *time.Location) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, false, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse("20060102T150405Z", v)
		return t, false, err
	case strings.Contains(v, "T"):
		t, err := time.ParseInLocation("20060102T150405", v, loc)
		return t, false, err
	default:
		t, err := time.ParseInLocation("20060102", v, loc)
		return t, true, err
	}
}

var textReplacer = strings.NewReplacer(
	`\n`, "\n",
	`\N`, "\n",
	`\,`, ",",
	`\;`, ";",
	`\\`, `\`,
)

// unescapeText undoes RFC 5545 TEXT escaping in one pass.
func unescapeText(s string) string {
	return textReplacer.Replace(s)
}
