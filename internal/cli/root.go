package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timeblock/internal/config"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/service"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Propose  service.ProposeService
	Plan     service.PlanService
	Calendar service.CalendarService
	Drafts   service.DraftService

	Config        *config.Config
	IsInteractive bool

	// Setup, when set, runs once before any command with the --config
	// path and is expected to fill in Config and the services.
	Setup func(configPath string) error
	// Clock replaces time.Now; tests pin it.
	Clock func() time.Time
	// PickDrafts replaces the interactive draft picker.
	PickDrafts func(title string, drafts []*domain.StoredDraft) ([]string, error)
}

// NewRootCmd creates the top-level "timeblock" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "timeblock",
		Short:         "Turn scheduling requests and task backlogs into calendar blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup != nil {
				if err := app.Setup(configPath); err != nil {
					return err
				}
			}
			if app.Config == nil {
				app.Config = config.Default()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/timeblock/config.yaml)")

	root.AddCommand(
		newIntentCmd(app),
		newProposeCmd(app),
		newPlanCmd(app),
		newCalendarCmd(app),
		newDraftsCmd(app),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now()
}

func (a *App) timezone(flag string) string {
	if flag != "" {
		return flag
	}
	return a.Config.Timezone
}

func (a *App) location(flag string) (*time.Location, error) {
	return domain.LoadLocation(a.timezone(flag))
}

func (a *App) userID() string {
	return a.Config.UserID
}
