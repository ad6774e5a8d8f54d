package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/timetable/internal/commands"
	"github.com/sandeepkv93/timetable/internal/scheduler"
)

func newListCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "day"},
		Short:   "Show one day, calendar events included",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := app.Store.Today()
			if date != "" {
				resolved, err := commands.ResolveDate(date, day)
				if err != nil {
					return err
				}
				day = resolved
			}
			entries := scheduler.DayPlan(app.Store, day, app.planOptions())
			fmt.Fprint(cmd.OutOrStdout(), formatDay(day, entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, today, tomorrow or +N)")
	return cmd
}

func newWeekCmd(app *App) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the Monday-to-Sunday week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor := app.Store.Today()
			if start != "" {
				resolved, err := commands.ResolveDate(start, anchor)
				if err != nil {
					return err
				}
				anchor = resolved
			}
			cols, err := scheduler.WeekColumns(app.Store, anchor, app.planOptions())
			if err != nil {
				return err
			}
			days := make([]string, 0, len(cols))
			for _, col := range cols {
				days = append(days, formatDay(col.Date, col.Entries))
			}
			fmt.Fprint(cmd.OutOrStdout(), strings.Join(days, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Any day inside the week to show")
	return cmd
}
