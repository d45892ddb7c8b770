package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timeblock/internal/cli/formatter"
	"github.com/alexanderramin/timeblock/internal/domain"
)

func newDraftsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "drafts",
		Aliases: []string{"draft"},
		Short:   "Review stored drafts",
	}

	cmd.AddCommand(
		newDraftsListCmd(app),
		newDraftsReviewCmd(app, "accept", domain.DraftAccepted),
		newDraftsReviewCmd(app, "decline", domain.DraftDeclined),
		newDraftsExportCmd(app),
		newDraftsDeleteSeriesCmd(app),
	)

	return cmd
}

func parseStatusFlag(s string) (domain.DraftStatus, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	status, ok := domain.ParseDraftStatus(s)
	if !ok {
		return "", fmt.Errorf("invalid --status %q (proposed|accepted|declined|all)", s)
	}
	return status, nil
}

func newDraftsListCmd(app *App) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatusFlag(statusFlag)
			if err != nil {
				return err
			}
			loc, err := app.location("")
			if err != nil {
				return err
			}
			drafts, err := app.Drafts.List(cmd.Context(), app.userID(), status)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDraftList(drafts, loc))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "all", "Filter by status (proposed|accepted|declined|all)")

	return cmd
}

// newDraftsReviewCmd builds "accept" and "decline". Without ids an
// interactive terminal gets a picker over the proposed drafts.
func newDraftsReviewCmd(app *App, verb string, status domain.DraftStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " [draft-id...]",
		Short: fmt.Sprintf("Mark drafts as %s", status),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var ids []string
			var err error
			if len(args) > 0 {
				ids, err = resolveDraftIDs(ctx, app, args)
			} else {
				ids, err = pickProposed(cmd, app, verb)
			}
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Nothing selected."))
				return nil
			}

			n, err := app.Drafts.SetStatus(ctx, app.userID(), ids, status)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render(fmt.Sprintf("Marked %d draft(s) %s.", n, status)))
			return nil
		},
	}
}

func pickProposed(cmd *cobra.Command, app *App, verb string) ([]string, error) {
	picker := app.PickDrafts
	if picker == nil {
		if !app.IsInteractive {
			return nil, fmt.Errorf("draft IDs are required when not running interactively")
		}
		loc, err := app.location("")
		if err != nil {
			return nil, err
		}
		picker = huhDraftPicker(loc)
	}

	proposed, err := app.Drafts.List(cmd.Context(), app.userID(), domain.DraftProposed)
	if err != nil {
		return nil, err
	}
	if len(proposed) == 0 {
		return nil, nil
	}
	return picker(fmt.Sprintf("Drafts to %s", verb), proposed)
}

func newDraftsExportCmd(app *App) *cobra.Command {
	var statusFlag, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write drafts as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatusFlag(statusFlag)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := app.Drafts.Export(cmd.Context(), app.userID(), status, w)
			if err != nil {
				return err
			}
			if w != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d draft(s) to %s\n", n, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", string(domain.DraftAccepted), "Drafts to export (proposed|accepted|declined|all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func newDraftsDeleteSeriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-series <series-id>",
		Short: "Delete every draft of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Drafts.DeleteSeries(cmd.Context(), app.userID(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d draft(s).\n", n)
			return nil
		},
	}
}
