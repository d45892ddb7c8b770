package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/slotting"
)

// FormatProposal renders the drafts of one proposal, the occurrences that
// were dropped and what was stored.
func FormatProposal(resp *app.ProposeResponse, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(Header(resp.Intent.Goal) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s · %s · %d occurrence(s)",
		resp.Intent.Cadence.String(), FormatMinutes(resp.Intent.DurationMinutes), len(resp.Occurrences))) + "\n\n")

	if len(resp.Drafts) == 0 {
		b.WriteString(StyleYellow.Render("No slot could be found for any occurrence.") + "\n")
	} else {
		b.WriteString(FormatEventDrafts(resp.Drafts, loc))
	}

	if len(resp.Dropped) > 0 {
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("Dropped %d occurrence(s):", len(resp.Dropped))) + "\n")
		for _, d := range resp.Dropped {
			b.WriteString(fmt.Sprintf("  %s  %s\n", DayLabel(d.Date, loc), Dim(dropReason(d.Reason))))
		}
	}
	if resp.Saved > 0 {
		b.WriteString("\n" + StyleGreen.Render(fmt.Sprintf("Saved %d new draft(s).", resp.Saved)) + "\n")
	}
	return b.String()
}

// FormatEventDrafts renders unsaved drafts as a table.
func FormatEventDrafts(drafts []domain.EventDraft, loc *time.Location) string {
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, []string{
			TruncID(d.ID),
			DayLabel(d.StartsAt, loc),
			TimeRange(d.StartsAt, d.EndsAt, loc),
			d.Title,
			fmt.Sprintf("%.2f", d.Confidence),
		})
	}
	return RenderTable([]string{"ID", "DAY", "TIME", "TITLE", "CONF"}, rows)
}

func dropReason(r slotting.DropReason) string {
	switch r {
	case slotting.DropExhausted:
		return "no free slot in the probe window"
	case slotting.DropDailyCap:
		return "daily cap reached"
	case slotting.DropOutsideHorizon:
		return "outside the horizon"
	case slotting.DropInPast:
		return "already in the past"
	default:
		return string(r)
	}
}
