package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/domain"
)

// FormatDraftList renders stored drafts with their review state.
func FormatDraftList(drafts []*domain.StoredDraft, loc *time.Location) string {
	if len(drafts) == 0 {
		return Dim("No drafts.") + "\n"
	}
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, []string{
			TruncID(d.ID),
			DayLabel(d.StartsAt, loc),
			TimeRange(d.StartsAt, d.EndsAt, loc),
			d.Title,
			DraftStatusPill(d.Status),
			TruncID(d.SeriesID),
		})
	}
	return RenderTable([]string{"ID", "DAY", "TIME", "TITLE", "STATUS", "SERIES"}, rows)
}

// DraftOption is the one-line label used when picking drafts interactively.
func DraftOption(d *domain.StoredDraft, loc *time.Location) string {
	return fmt.Sprintf("%s  %s  %s", DayLabel(d.StartsAt, loc), TimeRange(d.StartsAt, d.EndsAt, loc), d.Title)
}

// FormatCalendarImport summarizes one calendar import.
func FormatCalendarImport(source string, resp *app.CalendarImportResponse) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render(fmt.Sprintf("Imported %s: %d busy interval(s)", source, resp.Busy)))
	b.WriteString(Dim(fmt.Sprintf(" from %d event(s), %d free instance(s) ignored", resp.Parsed, resp.Free)) + "\n")
	for _, err := range resp.Skipped {
		b.WriteString(StyleYellow.Render("  skipped: ") + err.Error() + "\n")
	}
	for _, uid := range resp.Truncated {
		b.WriteString(StyleYellow.Render("  truncated: ") + uid + "\n")
	}
	return b.String()
}
