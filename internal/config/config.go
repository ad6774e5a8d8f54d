package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DayOrderTime   = "time"
	DayOrderManual = "manual"

	defaultSyncCron = "@every 1h"
	appDirName      = ".timetable"
)

// Config is the on-disk application configuration.
type Config struct {
	// DataPath is the SQLite database holding all persisted collections.
	DataPath string `yaml:"data_path" validate:"required"`
	// LogPath receives zap output; "-" means stderr.
	LogPath string `yaml:"log_path" validate:"required"`
	Debug   bool   `yaml:"debug"`

	// CalendarURL seeds the stored feed address on first run. Empty disables sync.
	CalendarURL      string        `yaml:"calendar_url" validate:"omitempty,url"`
	SyncCron         string        `yaml:"sync_cron" validate:"required,cronspec"`
	SyncHorizonDays  int           `yaml:"sync_horizon_days" validate:"min=1,max=366"`
	SyncLookbackDays int           `yaml:"sync_lookback_days" validate:"min=0,max=366"`
	SyncTimeout      time.Duration `yaml:"sync_timeout" validate:"min=1s,max=5m"`

	// GridRowsPerHour is the number of terminal rows one hour occupies in the day grid.
	GridRowsPerHour int    `yaml:"grid_rows_per_hour" validate:"min=1,max=12"`
	DayOrder        string `yaml:"day_order" validate:"oneof=time manual"`
	// WeekStart is kept for forward compatibility; only "monday" is supported.
	WeekStart string `yaml:"week_start" validate:"oneof=monday"`

	// NotifyLeadMinutes is how early a starting-soon notice fires.
	NotifyLeadMinutes    int  `yaml:"notify_lead_minutes" validate:"min=1,max=240"`
	DesktopNotifications bool `yaml:"desktop_notifications"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("cronspec", validateCronSpec); err != nil {
		panic(fmt.Sprintf("failed to register cronspec validator: %v", err))
	}
	return v
}

func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// Dir is the per-user application directory, ~/.timetable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return appDirName
	}
	return filepath.Join(home, appDirName)
}

// DefaultPath honors TIMETABLE_CONFIG before falling back to Dir()/config.yaml.
func DefaultPath() string {
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_CONFIG")); v != "" {
		return v
	}
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		DataPath:          filepath.Join(dir, "timetable.db"),
		LogPath:           filepath.Join(dir, "timetable.log"),
		SyncCron:          defaultSyncCron,
		SyncHorizonDays:   60,
		SyncLookbackDays:  7,
		SyncTimeout:       15 * time.Second,
		GridRowsPerHour:   2,
		DayOrder:          DayOrderTime,
		WeekStart:         "monday",
		NotifyLeadMinutes: 10,
	}
}

// Normalize fills zero values so configs written by older versions still load.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.DataPath == "" {
		c.DataPath = def.DataPath
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if c.SyncCron == "" {
		c.SyncCron = def.SyncCron
	}
	if c.SyncHorizonDays <= 0 {
		c.SyncHorizonDays = def.SyncHorizonDays
	}
	if c.SyncLookbackDays < 0 {
		c.SyncLookbackDays = def.SyncLookbackDays
	}
	if c.SyncTimeout <= 0 {
		c.SyncTimeout = def.SyncTimeout
	}
	if c.GridRowsPerHour <= 0 {
		c.GridRowsPerHour = def.GridRowsPerHour
	}
	if c.NotifyLeadMinutes <= 0 {
		c.NotifyLeadMinutes = def.NotifyLeadMinutes
	}
	switch c.DayOrder {
	case DayOrderTime, DayOrderManual:
	default:
		c.DayOrder = DayOrderTime
	}
	// unknown week starts fall back to monday
	c.WeekStart = "monday"
	c.CalendarURL = strings.TrimSpace(c.CalendarURL)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads path, creating it with defaults on first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg atomically (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".timetable-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
