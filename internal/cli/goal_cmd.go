package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/timetable/internal/commands"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage monthly goals",
	}
	cmd.AddCommand(newGoalAddCmd(app), newGoalListCmd(app), newGoalRemoveCmd(app))
	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <month> <title...>",
		Short: "Add a goal to a month (1-12 or a month name)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := commands.ParseMonth(args[0])
			if err != nil {
				return err
			}
			g, err := app.Store.AddGoal(cmd.Context(), month, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added goal %s to %s\n", g.ID, time.Month(g.Month+1))
			return nil
		},
	}
}

func newGoalListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List goals from the current month on",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := int(app.now().Month()) - 1
			var rows [][]string
			for _, group := range app.Store.GoalsByMonth(current) {
				for _, g := range group.Goals {
					rows = append(rows, []string{g.ID, time.Month(group.Month + 1).String(), g.Title})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("no goals"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "MONTH", "GOAL"}, rows))
			return nil
		},
	}
}

func newGoalRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.RemoveGoal(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "goal removed")
			return nil
		},
	}
}
