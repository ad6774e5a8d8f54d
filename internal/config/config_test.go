package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "@every 1h", cfg.SyncCron)
	assert.Equal(t, 60, cfg.SyncHorizonDays)
	assert.Equal(t, 15*time.Second, cfg.SyncTimeout)
	assert.Equal(t, DayOrderTime, cfg.DayOrder)
}

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.GridRowsPerHour)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "calendar_url: \" https://example.com/cal.ics \"\nsync_timeout: 30s\nday_order: sideways\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cal.ics", cfg.CalendarURL)
	assert.Equal(t, 30*time.Second, cfg.SyncTimeout)
	assert.Equal(t, DayOrderTime, cfg.DayOrder)
	assert.Equal(t, 60, cfg.SyncHorizonDays)
	require.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.DayOrder = DayOrderManual
	cfg.SyncCron = "*/30 * * * *"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DayOrderManual, loaded.DayOrder)
	assert.Equal(t, "*/30 * * * *", loaded.SyncCron)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"cron":    func(c *Config) { c.SyncCron = "every so often" },
		"url":     func(c *Config) { c.CalendarURL = "not a url" },
		"rows":    func(c *Config) { c.GridRowsPerHour = 40 },
		"order":   func(c *Config) { c.DayOrder = "random" },
		"timeout": func(c *Config) { c.SyncTimeout = time.Millisecond },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TIMETABLE_DB", "/tmp/tt.db")
	t.Setenv("TIMETABLE_LOG", "-")
	t.Setenv("TIMETABLE_DEBUG", "yes")
	t.Setenv("TIMETABLE_CALENDAR_URL", "https://example.com/a.ics")
	t.Setenv("TIMETABLE_SYNC_CRON", "@every 15m")
	t.Setenv("TIMETABLE_GRID_ROWS_PER_HOUR", "4")
	t.Setenv("TIMETABLE_DAY_ORDER", "MANUAL")

	cfg := FromEnv(*DefaultConfig())
	assert.Equal(t, "/tmp/tt.db", cfg.DataPath)
	assert.Equal(t, "-", cfg.LogPath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "https://example.com/a.ics", cfg.CalendarURL)
	assert.Equal(t, "@every 15m", cfg.SyncCron)
	assert.Equal(t, 4, cfg.GridRowsPerHour)
	assert.Equal(t, DayOrderManual, cfg.DayOrder)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("TIMETABLE_GRID_ROWS_PER_HOUR", "lots")
	t.Setenv("TIMETABLE_DEBUG", "maybe")
	cfg := FromEnv(*DefaultConfig())
	assert.Equal(t, 2, cfg.GridRowsPerHour)
	assert.False(t, cfg.Debug)
}

func TestDefaultPathHonorsEnv(t *testing.T) {
	t.Setenv("TIMETABLE_CONFIG", "/etc/timetable.yaml")
	assert.Equal(t, "/etc/timetable.yaml", DefaultPath())
}
