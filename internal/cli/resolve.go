package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timeblock/internal/timewin"
)

// resolveNow reads the --now flag, falling back to the app clock.
func resolveNow(app *App, flag string, loc *time.Location) (time.Time, error) {
	if flag == "" {
		return app.now(), nil
	}
	t, err := timewin.ParseInstant(flag, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now: %w", err)
	}
	return t, nil
}

// resolveDraftIDs maps each input to a stored draft id. An input matches
// exactly, or as a unique id prefix.
func resolveDraftIDs(ctx context.Context, app *App, inputs []string) ([]string, error) {
	drafts, err := app.Drafts.List(ctx, app.userID(), "")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if input == "" {
			return nil, fmt.Errorf("draft ID is required")
		}
		var matches []string
		for _, d := range drafts {
			if d.ID == input {
				matches = []string{d.ID}
				break
			}
			if strings.HasPrefix(d.ID, input) {
				matches = append(matches, d.ID)
			}
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("draft not found: %q", input)
		case 1:
			out = append(out, matches[0])
		default:
			return nil, fmt.Errorf("draft ID prefix %q is ambiguous (%d matches)", input, len(matches))
		}
	}
	return out, nil
}
