package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/cli"
	"github.com/sandeepkv93/timetable/internal/config"
	"github.com/sandeepkv93/timetable/internal/feed"
	"github.com/sandeepkv93/timetable/internal/logging"
	"github.com/sandeepkv93/timetable/internal/scheduler"
	"github.com/sandeepkv93/timetable/internal/storage"
	"github.com/sandeepkv93/timetable/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timetable: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	loaded, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.FromEnv(*loaded)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Options{Path: cfg.LogPath, Debug: cfg.Debug})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logging.Sync(log) }()

	kv, err := storage.OpenSQLite(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer kv.Close()

	ctx := context.Background()
	store, err := agenda.Open(ctx, kv, agenda.WithLogger(log))
	if err != nil {
		return fmt.Errorf("loading timetable: %w", err)
	}
	if store.CalendarURL() == "" && cfg.CalendarURL != "" {
		if err := store.SetCalendarURL(ctx, cfg.CalendarURL); err != nil {
			log.Warn("calendar_url_seed_failed", zap.Error(err))
		}
	}

	syncer := feed.NewSyncer(
		feed.NewClient(cfg.SyncTimeout, log),
		feed.NewParser(log, feed.WithLocation(time.Local)),
		store,
		feed.SyncOptions{
			Timeout:      cfg.SyncTimeout,
			LookbackDays: cfg.SyncLookbackDays,
			HorizonDays:  cfg.SyncHorizonDays,
		},
		log,
	)

	order := scheduler.OrderTime
	if cfg.DayOrder == config.DayOrderManual {
		order = scheduler.OrderManual
	}

	app := &cli.App{
		Store:  store,
		Syncer: syncer,
		Order:  order,
		Log:    log,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
		RunTUI: func() error {
			model := update.NewModel(store, syncer, update.Options{
				Order:                order,
				RowsPerHour:          cfg.GridRowsPerHour,
				NotifyLeadMinutes:    cfg.NotifyLeadMinutes,
				DesktopNotifications: cfg.DesktopNotifications,
				Logger:               log,
			})
			program := tea.NewProgram(model, tea.WithAltScreen())

			runner, err := feed.NewRunner(cfg.SyncCron, syncer, func(st feed.Status) {
				program.Send(update.SyncResultMsg{Status: st})
			}, log)
			if err != nil {
				return err
			}
			runner.Start()
			defer runner.Stop()

			_, err = program.Run()
			return err
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
