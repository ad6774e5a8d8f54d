package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/feed"
	"github.com/sandeepkv93/timetable/internal/logging"
	"github.com/sandeepkv93/timetable/internal/scheduler"
)

// App holds what the commands operate on. Syncer and RunTUI may be nil.
type App struct {
	Store  *agenda.Store
	Syncer *feed.Syncer
	Order  scheduler.Order
	Log    *zap.Logger
	Now    func() time.Time

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	RunTUI        func() error
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) log() *zap.Logger {
	return logging.OrNop(a.Log)
}

func (a *App) planOptions() scheduler.Options {
	order := a.Order
	if order == "" {
		order = scheduler.OrderTime
	}
	return scheduler.Options{Order: order}
}

// NewRootCmd creates the "timetable" command. Without a subcommand it opens
// the TUI on a terminal and prints help otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "timetable",
		Short:         "Personal day and week timetable",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && app.RunTUI != nil {
				return app.RunTUI()
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newTUICmd(app),
		newAddCmd(app),
		newListCmd(app),
		newWeekCmd(app),
		newDoneCmd(app),
		newRemoveCmd(app),
		newMoveCmd(app),
		newGoalCmd(app),
		newSyncCmd(app),
		newExportCmd(app),
		newImportCmd(app),
	)

	return root
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive timetable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RunTUI == nil {
				return errNoTUI
			}
			return app.RunTUI()
		},
	}
}
