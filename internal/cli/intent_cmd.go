package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	tbapp "github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/cli/formatter"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

// intentDoc is the YAML shape of an interpreted request.
type intentDoc struct {
	Goal            string   `yaml:"goal"`
	DurationMinutes int      `yaml:"duration_minutes"`
	Cadence         string   `yaml:"cadence"`
	Days            []string `yaml:"days,omitempty"`
	Interval        int      `yaml:"interval,omitempty"`
	Window          string   `yaml:"window"`
	At              string   `yaml:"at,omitempty"`
	StartDate       string   `yaml:"start_date"`
	EndDate         string   `yaml:"end_date,omitempty"`
	Count           *int     `yaml:"count,omitempty"`
	Priority        int      `yaml:"priority"`
	Timezone        string   `yaml:"timezone"`
}

func newIntentDoc(u domain.UnifiedScheduleIntent) intentDoc {
	doc := intentDoc{
		Goal:            u.Goal,
		DurationMinutes: u.DurationMinutes,
		Cadence:         u.Cadence.String(),
		Window:          string(u.Window),
		StartDate:       u.StartDate.Format(timewin.DateKeyLayout),
		Count:           u.Count,
		Priority:        u.Priority,
		Timezone:        u.Timezone,
	}
	for _, d := range u.Cadence.DaysOfWeek {
		doc.Days = append(doc.Days, strings.ToLower(d.String()[:3]))
	}
	if u.Cadence.Kind != domain.CadenceOnce {
		doc.Interval = u.Cadence.EffectiveInterval()
	}
	if u.SeedTime != nil {
		doc.At = u.SeedTime.String()
	}
	if u.EndDate != nil {
		doc.EndDate = u.EndDate.Format(timewin.DateKeyLayout)
	}
	return doc
}

func newIntentCmd(app *App) *cobra.Command {
	var tz, nowFlag string
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "intent <request...>",
		Short: "Show how a scheduling request is understood",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := app.location(tz)
			if err != nil {
				return err
			}
			now, err := resolveNow(app, nowFlag, loc)
			if err != nil {
				return err
			}

			u, err := app.Propose.Interpret(cmd.Context(), tbapp.InterpretRequest{
				Text:     strings.Join(args, " "),
				Timezone: loc.String(),
				Now:      &now,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(newIntentDoc(*u))
			}
			fmt.Fprintln(out, formatter.FormatIntent(*u))
			return nil
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone (default from config)")
	cmd.Flags().StringVar(&nowFlag, "now", "", "Reference time for relative phrases")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the intent as YAML")

	return cmd
}
