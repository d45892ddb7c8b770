package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tbapp "github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/cli/formatter"
	"github.com/alexanderramin/timeblock/internal/service"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

// defaultImportDays is how far ahead an import reaches without --to.
const defaultImportDays = 28

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage cached busy time",
	}
	cmd.AddCommand(newCalendarImportCmd(app))
	return cmd
}

func newCalendarImportCmd(app *App) *cobra.Command {
	var source, fromFlag, toFlag, tz string

	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Cache busy intervals from an iCalendar file",
		Long: `Expand the events of an iCalendar file over a window and cache the busy
instances. Importing the same source again replaces its cached window.
Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := app.location(tz)
			if err != nil {
				return err
			}
			from := timewin.StartOfDay(app.now(), loc)
			if fromFlag != "" {
				if from, err = timewin.ParseInstant(fromFlag, loc); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			to := from.AddDate(0, 0, defaultImportDays)
			if toFlag != "" {
				if to, err = timewin.ParseInstant(toFlag, loc); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			resp, err := app.Calendar.Import(cmd.Context(), tbapp.CalendarImportRequest{
				UserID:   app.userID(),
				Source:   source,
				Reader:   in,
				Timezone: loc.String(),
				From:     from,
				To:       to,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCalendarImport(source, resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", service.DefaultCalendarSource, "Name the cached intervals are kept under")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Window start (default today)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Window end (default 28 days after start)")
	cmd.Flags().StringVar(&tz, "tz", "", "Timezone for floating and all-day times (default from config)")

	return cmd
}
