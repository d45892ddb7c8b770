package cli

import (
	"time"

	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/timeblock/internal/cli/formatter"
	"github.com/alexanderramin/timeblock/internal/domain"
)

// huhDraftPicker asks the user to tick drafts in a multi-select form.
func huhDraftPicker(loc *time.Location) func(title string, drafts []*domain.StoredDraft) ([]string, error) {
	return func(title string, drafts []*domain.StoredDraft) ([]string, error) {
		options := make([]huh.Option[string], 0, len(drafts))
		for _, d := range drafts {
			options = append(options, huh.NewOption(formatter.DraftOption(d, loc), d.ID))
		}

		var selected []string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewMultiSelect[string]().
					Title(title).
					Description("space to toggle, enter to confirm").
					Options(options...).
					Value(&selected),
			),
		)
		if err := form.Run(); err != nil {
			return nil, err
		}
		return selected, nil
	}
}
