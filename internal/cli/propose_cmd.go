package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	tbapp "github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/cli/formatter"
	"github.com/alexanderramin/timeblock/internal/domain"
)

func newProposeCmd(app *App) *cobra.Command {
	var tz, nowFlag, overlap string
	var dailyCap, maxOccurrences, maxOverlap int
	var save bool

	cmd := &cobra.Command{
		Use:   "propose <request...>",
		Short: "Propose calendar drafts for a scheduling request",
		Long: `Interpret a free-text request, expand its cadence and find a free slot for
every occurrence. Busy time comes from imported calendars and accepted drafts.
Use --save to keep the drafts for review.`,
		Example: `  timeblock propose "study calc twice a week for 90 min until Dec 15 in the evenings"
  timeblock propose --save "gym Monday Wednesday Friday at 7am"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := app.location(tz)
			if err != nil {
				return err
			}
			now, err := resolveNow(app, nowFlag, loc)
			if err != nil {
				return err
			}

			policy := app.Config.OverlapPolicy()
			if cmd.Flags().Changed("overlap") {
				mode, ok := domain.ParseOverlapMode(overlap)
				if !ok {
					return fmt.Errorf("invalid --overlap %q (none|soft|allow)", overlap)
				}
				policy.Mode = mode
			}
			if cmd.Flags().Changed("max-overlap") {
				policy.MaxOverlapMinutes = maxOverlap
			}
			if !cmd.Flags().Changed("daily-cap") {
				dailyCap = app.Config.Scheduling.DailyCap
			}
			if !cmd.Flags().Changed("max") {
				maxOccurrences = app.Config.Scheduling.MaxOccurrences
			}

			resp, err := app.Propose.Propose(cmd.Context(), tbapp.ProposeRequest{
				UserID:         app.userID(),
				Text:           strings.Join(args, " "),
				Timezone:       loc.String(),
				Now:            &now,
				DailyCap:       dailyCap,
				MaxOccurrences: maxOccurrences,
				Policy:         policy,
				Persist:        save,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposal(resp, loc))
			return nil
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone (default from config)")
	cmd.Flags().StringVar(&nowFlag, "now", "", "Reference time (RFC3339 or YYYY-MM-DD[THH:MM])")
	cmd.Flags().IntVar(&dailyCap, "daily-cap", 0, "Max drafts per day, 0 for unlimited (default from config)")
	cmd.Flags().IntVar(&maxOccurrences, "max", 0, "Max occurrences to expand (default from config)")
	cmd.Flags().StringVar(&overlap, "overlap", "", "Overlap mode (none|soft|allow)")
	cmd.Flags().IntVar(&maxOverlap, "max-overlap", 0, "Minutes a stackable goal may overlap busy time")
	cmd.Flags().BoolVar(&save, "save", false, "Store the drafts for review")

	return cmd
}
