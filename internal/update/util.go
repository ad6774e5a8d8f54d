package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/timetable/internal/model"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// dateLabel renders a date key for headings, falling back to the key.
func dateLabel(key string) string {
	t, err := model.ParseDateKey(key)
	if err != nil {
		return key
	}
	return t.Format("Mon 2 Jan")
}

func monthName(month int) string {
	if month < 0 || month > 11 {
		return fmt.Sprintf("month %d", month)
	}
	return time.Month(month + 1).String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
