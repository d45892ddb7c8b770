package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/domain"
)

// FormatPlan renders the day-by-day plan, per-task outcomes and the
// weekly rollup.
func FormatPlan(resp *app.PlanResponse, loc *time.Location) string {
	res := resp.Result
	var b strings.Builder

	b.WriteString(Header("Plan") + "\n")
	if len(res.DailyPlan) == 0 {
		b.WriteString(Dim("Nothing was placed.") + "\n")
	}
	for _, day := range res.DailyPlan {
		total := 0
		for _, ev := range day.Events {
			total += ev.Minutes()
		}
		b.WriteString(fmt.Sprintf("\n%s  %s\n", Bold(dayKeyLabel(day.DateKey, loc)), Dim(FormatMinutes(total))))
		for _, ev := range day.Events {
			b.WriteString(fmt.Sprintf("  %s  %s %s\n", StyleBlue.Render(TimeRange(ev.Start, ev.End, loc)), ev.Title, Dim("("+ev.TaskID+")")))
		}
	}

	b.WriteString("\n" + Header("Tasks") + "\n")
	rows := make([][]string, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		rows = append(rows, []string{
			o.TaskID,
			o.Title,
			fmt.Sprintf("%.0f", o.Score),
			FormatMinutes(o.AllocatedMinutes) + " / " + FormatMinutes(o.EffortMinutes),
			TaskStatusPill(o.Status),
		})
	}
	b.WriteString(RenderTable([]string{"TASK", "TITLE", "SCORE", "PLACED", "STATUS"}, rows))

	w := res.WeeklyRollup
	b.WriteString(fmt.Sprintf("\n%s %s · %d block(s) · %s\n",
		Dim("Week of"), w.WeekStartDateKey, w.TotalEvents, FormatMinutes(w.TotalMinutes)))
	if len(res.UnscheduledTaskIDs) > 0 {
		b.WriteString(StyleYellow.Render("Unscheduled: "+strings.Join(res.UnscheduledTaskIDs, ", ")) + "\n")
	}
	if resp.CachedBusy > 0 {
		b.WriteString(Dim(fmt.Sprintf("Respected %d cached busy interval(s).", resp.CachedBusy)) + "\n")
	}
	if resp.Persisted > 0 {
		b.WriteString(StyleGreen.Render(fmt.Sprintf("Saved %d block(s) to the busy cache.", resp.Persisted)) + "\n")
	}
	return b.String()
}

// FormatOutcomeReasons lists the scoring reasons of every task.
func FormatOutcomeReasons(outcomes []domain.TaskOutcome) string {
	var b strings.Builder
	for _, o := range outcomes {
		b.WriteString(fmt.Sprintf("%s %s\n", Bold(o.TaskID), Dim(fmt.Sprintf("score %.1f", o.Score))))
		for _, r := range o.Reasons {
			b.WriteString(fmt.Sprintf("  %+6.1f  %s\n", r.WeightDelta, r.Message))
		}
	}
	return b.String()
}

func dayKeyLabel(key string, loc *time.Location) string {
	t, err := time.ParseInLocation("2006-01-02", key, loc)
	if err != nil {
		return key
	}
	return DayLabel(t, loc)
}
