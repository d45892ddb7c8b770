// Package scheduler is the multi-task allocator: it scores a backlog, sorts
// it best-first and packs task effort into free gaps of the work window
// around existing events, over a rolling horizon.
package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
)

// Plan runs the allocator over an in-memory snapshot. It fails only on
// invalid preferences; tasks that cannot be placed are reported in
// UnscheduledTaskIDs and Outcomes.
func Plan(now time.Time, tasks []domain.PlannerTaskInput, existing []domain.ExistingEvent, prefs domain.PlannerPreferences) (domain.PlannerResult, error) {
	if err := prefs.Validate(); err != nil {
		return domain.PlannerResult{}, err
	}
	loc, err := prefs.Location()
	if err != nil {
		return domain.PlannerResult{}, err
	}

	candidates := make([]ScoredCandidate, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			t.ID = fmt.Sprintf("task-%d", i+1)
		}
		candidates[i] = ScoreTask(ScoringInput{Task: t, Index: i, Now: now})
	}
	CanonicalSort(candidates)

	alloc := newAllocator(now, loc, prefs, existing)
	var result domain.PlannerResult
	for _, c := range candidates {
		t := c.Input.Task
		effort := max(t.EffortMinutes, 0)
		out := domain.TaskOutcome{
			TaskID:        t.ID,
			Title:         t.Title,
			Score:         c.Score,
			Reasons:       c.Reasons,
			EffortMinutes: effort,
		}

		if c.Blocked {
			out.RemainingMinutes = effort
			out.Status = domain.TaskBlocked
			result.UnscheduledTaskIDs = append(result.UnscheduledTaskIDs, t.ID)
			result.Outcomes = append(result.Outcomes, out)
			continue
		}

		a := alloc.allocate(t, t.ID)
		out.AllocatedMinutes = a.Allocated
		out.RemainingMinutes = a.Remaining
		switch {
		case a.Remaining == 0:
			out.Status = domain.TaskScheduled
		case a.Allocated > 0:
			out.Status = domain.TaskPartial
		default:
			out.Status = domain.TaskUnscheduled
		}
		if a.Remaining > 0 {
			result.UnscheduledTaskIDs = append(result.UnscheduledTaskIDs, t.ID)
		}
		result.Events = append(result.Events, a.Events...)
		result.Outcomes = append(result.Outcomes, out)
	}

	result.DailyPlan, result.WeeklyRollup = Aggregate(result.Events, now, loc)
	return result, nil
}
