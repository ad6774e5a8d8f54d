package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays TIMETABLE_* environment variables on base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TIMETABLE_DB"); ok {
		cfg.DataPath = v
	}
	if v, ok := getEnvString("TIMETABLE_LOG"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvBool("TIMETABLE_DEBUG"); ok {
		cfg.Debug = v
	}
	if v, ok := getEnvString("TIMETABLE_CALENDAR_URL"); ok {
		cfg.CalendarURL = v
	}
	if v, ok := getEnvString("TIMETABLE_SYNC_CRON"); ok {
		cfg.SyncCron = v
	}
	if v, ok := getEnvInt("TIMETABLE_GRID_ROWS_PER_HOUR"); ok && v > 0 {
		cfg.GridRowsPerHour = v
	}
	if v, ok := getEnvString("TIMETABLE_DAY_ORDER"); ok {
		cfg.DayOrder = strings.ToLower(v)
	}
	if v, ok := getEnvInt("TIMETABLE_NOTIFY_LEAD_MINUTES"); ok && v > 0 {
		cfg.NotifyLeadMinutes = v
	}
	if v, ok := getEnvBool("TIMETABLE_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
