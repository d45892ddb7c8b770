package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timeblock/internal/domain"
)

// FormatIntent renders a structured intent as a label/value box.
func FormatIntent(u domain.UnifiedScheduleIntent) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	line("GOAL", Bold(u.Goal))
	line("CADENCE", u.Cadence.String())
	line("DURATION", FormatMinutes(u.DurationMinutes))
	line("WINDOW", string(u.Window))
	if u.SeedTime != nil {
		line("AT", u.SeedTime.String())
	}
	horizon := u.StartDate.Format("2006-01-02")
	if u.EndDate != nil {
		horizon += " → " + u.EndDate.Format("2006-01-02")
	} else {
		horizon += " → open"
	}
	line("HORIZON", horizon)
	if u.Count != nil {
		line("COUNT", fmt.Sprintf("%d", *u.Count))
	}
	line("PRIORITY", fmt.Sprintf("%d", u.Priority))
	line("TIMEZONE", u.Timezone)
	return RenderBox("Intent", strings.TrimRight(b.String(), "\n"))
}
