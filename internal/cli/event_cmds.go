package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/commands"
)

var (
	errNoTUI    = errors.New("interactive mode is not available")
	errNoSyncer = errors.New("calendar sync is not configured")
)

func newDoneCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle completion of an event on a day",
		Long: `Toggle completion. One-off events are marked on the event itself.
Repeating events are marked per day; --date picks the day and defaults to today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			e, ok := app.Store.Event(id)
			if !ok {
				return fmt.Errorf("no event with id %s", id)
			}
			day := e.Date
			if e.IsRecurring() {
				day = app.Store.Today()
			}
			if date != "" {
				resolved, err := commands.ResolveDate(date, app.Store.Today())
				if err != nil {
					return err
				}
				day = resolved
			}
			done, err := app.Store.ToggleDone(cmd.Context(), id, day)
			if err != nil {
				return err
			}
			state := "open"
			if done {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %s\n", e.Title, day, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Occurrence day for repeating events")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an event and all of its occurrences",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ok := app.Store.Event(args[0])
			if !ok {
				return fmt.Errorf("no event with id %s", args[0])
			}
			if err := app.Store.Remove(cmd.Context(), e.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", e.Title)
			return nil
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <date>",
		Short: "Move an event to another day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := commands.ResolveDate(args[1], app.Store.Today())
			if err != nil {
				return err
			}
			e, err := app.Store.Reschedule(cmd.Context(), args[0], date)
			if err != nil {
				return err
			}
			app.log().Info("cli_event_moved", zap.String("id", e.ID), zap.String("date", date))
			fmt.Fprintf(cmd.OutOrStdout(), "moved %q to %s\n", e.Title, date)
			return nil
		},
	}
}
