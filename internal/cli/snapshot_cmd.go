package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every collection to a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Export(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all collections with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Import(cmd.Context(), args[0]); err != nil {
				app.log().Warn("cli_import_failed", zap.String("path", args[0]), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d event(s) and %d goal(s)\n", len(app.Store.Events()), len(app.Store.Goals()))
			return nil
		},
	}
}
