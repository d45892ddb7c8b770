package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	tbapp "github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/cli/formatter"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/importer"
)

func newPlanCmd(app *App) *cobra.Command {
	var nowFlag, mode string
	var save, noCache, explain bool

	cmd := &cobra.Command{
		Use:   "plan <backlog.yaml>",
		Short: "Place a task backlog into free work time",
		Long: `Score every task in a backlog file and place its effort into free blocks of
the work window over the next two weeks, around the file's events, imported
calendars and accepted drafts. Use --save to record the placements as busy time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := importer.LoadBacklog(args[0])
			if err != nil {
				return err
			}

			var override domain.ConflictMode
			if cmd.Flags().Changed("mode") {
				m, ok := domain.ParseConflictMode(mode)
				if !ok {
					return fmt.Errorf("invalid --mode %q (push|shorten|decline)", mode)
				}
				override = m
			}

			baseLoc, err := app.location("")
			if err != nil {
				return err
			}
			if errs := importer.ValidateBacklog(file, baseLoc); len(errs) > 0 {
				return fmt.Errorf("invalid backlog %s: %w", args[0], errors.Join(errs...))
			}
			backlog, err := importer.Convert(file, app.Config.Preferences())
			if err != nil {
				return err
			}
			if override != "" {
				backlog.Preferences.ResolveConflicts = override
			}
			loc, err := backlog.Preferences.Location()
			if err != nil {
				return err
			}

			now, err := resolveNow(app, nowFlag, loc)
			if err != nil {
				return err
			}
			resp, err := app.Plan.Plan(cmd.Context(), tbapp.PlanRequest{
				UserID:      app.userID(),
				Now:         &now,
				Tasks:       backlog.Tasks,
				Events:      backlog.Events,
				Preferences: backlog.Preferences,
				UseCache:    !noCache,
				Persist:     save,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatPlan(resp, loc))
			if explain {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Header("Scores"))
				fmt.Fprint(out, formatter.FormatOutcomeReasons(resp.Result.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "Reference time (RFC3339 or YYYY-MM-DD[THH:MM])")
	cmd.Flags().StringVar(&mode, "mode", "", "Conflict mode (push|shorten|decline), overrides config and file")
	cmd.Flags().BoolVar(&save, "save", false, "Record placements in the busy cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore imported calendars and accepted drafts")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show how each task was scored")

	return cmd
}
