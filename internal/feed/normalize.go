package feed

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sandeepkv93/timetable/internal/model"
)

const (
	maxTeacherLen  = 50
	maxLocationLen = 40
	noteSeparator  = " | "
)

var (
	teacherPattern      = regexp.MustCompile(`Teachers?:\s*-?\s*`)
	activityTypePattern = regexp.MustCompile(`Activity Type:\s*([^|\n]+)`)

	activityTypes = []string{"Lecture", "Seminar", "Tutorial", "Lab", "Workshop", "Exam"}
)

// normalize builds the record for one occurrence. Recurring occurrences get
// the date appended to the UID so each instance has its own id.
func (p *Parser) normalize(occ occurrence) model.ImportedEvent {
	start, end := occ.start, occ.end
	if !occ.event.AllDay {
		start, end = start.In(p.loc), end.In(p.loc)
	}
	rec := model.ImportedEvent{
		ID:    occ.event.UID,
		Date:  start.Format(model.DateLayout),
		Time:  model.DefaultTime,
		Title: strings.TrimSpace(occ.event.Summary),
		Note:  BuildNote(occ.event.Description, occ.event.Location),
	}
	if occ.recurring {
		rec.ID = occ.event.UID + "@" + rec.Date
	}
	if occ.event.AllDay {
		return rec
	}
	rec.Time = model.ClockOf(start)
	if occ.hasEnd {
		rec.EndTime = model.ClockOf(end)
	}
	return rec
}

// BuildNote condenses a timetable-style DESCRIPTION into
// "teacher | activity | location", keeping only the parts that are present
// and short enough.
func BuildNote(description, location string) string {
	var parts []string
	if teacher := extractTeacher(description); teacher != "" {
		parts = append(parts, teacher)
	}
	if kind := extractActivityType(description); kind != "" {
		parts = append(parts, kind)
	}
	loc := strings.TrimSpace(location)
	if loc != "" && utf8.RuneCountInString(loc) < maxLocationLen {
		parts = append(parts, loc)
	}
	return strings.Join(parts, noteSeparator)
}

func extractTeacher(description string) string {
	loc := teacherPattern.FindStringIndex(description)
	if loc == nil {
		return ""
	}
	rest := description[loc[1]:]
	if i := strings.Index(rest, "\n"); i >= 0 {
		rest = rest[:i]
	} else if i := strings.Index(rest, "Activity Type"); i >= 0 {
		rest = rest[:i]
	}
	teacher := strings.TrimSpace(rest)
	if teacher == "" || utf8.RuneCountInString(teacher) >= maxTeacherLen {
		return ""
	}
	return teacher
}

func extractActivityType(description string) string {
	m := activityTypePattern.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	value := strings.ToLower(strings.TrimSpace(m[1]))
	for _, kind := range activityTypes {
		if strings.Contains(value, strings.ToLower(kind)) {
			return kind
		}
	}
	return ""
}
