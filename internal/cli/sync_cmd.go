package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/timetable/internal/feed"
)

func newSyncCmd(app *App) *cobra.Command {
	var url string
	var clear bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import events from the calendar feed",
		Long: `Fetch the configured ICS feed and replace the imported calendar events.
--url stores a new feed address first (webcal:// is accepted); --clear removes it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			switch {
			case clear:
				if err := app.Store.SetCalendarURL(ctx, ""); err != nil {
					return err
				}
				fmt.Fprintln(out, "calendar url cleared")
				return nil
			case strings.TrimSpace(url) != "":
				normalized, err := feed.NormalizeURL(url)
				if err != nil {
					return err
				}
				if err := app.Store.SetCalendarURL(ctx, normalized); err != nil {
					return err
				}
				fmt.Fprintf(out, "calendar url set to %s\n", feed.RedactURL(normalized))
			}

			if app.Syncer == nil {
				return errNoSyncer
			}
			st := app.Syncer.Sync(ctx)
			switch st.Outcome {
			case feed.Disabled:
				fmt.Fprintln(out, "no calendar url configured; use --url")
				return nil
			case feed.Failed:
				return fmt.Errorf("sync failed: %w", st.Err)
			}
			fmt.Fprintf(out, "imported %d calendar event(s)\n", st.Imported)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Store this feed address before syncing")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the stored feed address")
	return cmd
}
