package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
)

type ScoringInput struct {
	Task  domain.PlannerTaskInput
	Index int // position in the caller's backlog; breaks score ties
	Now   time.Time
}

type ScoredCandidate struct {
	Input   ScoringInput
	Score   float64
	Reasons []domain.ScoreReason
	// Blocked tasks have unmet dependencies and are never placed.
	Blocked bool
}

// ScoreTask computes
// 100*priority + due bonus + effort bonus - dependency penalty + earliest-start bonus.
func ScoreTask(input ScoringInput) ScoredCandidate {
	result := ScoredCandidate{
		Input:   input,
		Blocked: len(input.Task.Dependencies) > 0,
	}

	var score float64
	factors := []func(ScoringInput) (float64, *domain.ScoreReason){
		scorePriority,
		scoreDueProximity,
		scoreEffort,
		scoreDependencies,
		scoreEarliestStart,
	}
	for _, f := range factors {
		delta, reason := f(input)
		score += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}

	result.Score = score
	return result
}

func scorePriority(input ScoringInput) (float64, *domain.ScoreReason) {
	p := input.Task.EffectivePriority()
	delta := 100.0 * float64(p)
	return delta, &domain.ScoreReason{
		Code:        domain.ReasonPriority,
		Message:     fmt.Sprintf("Priority %d", p),
		WeightDelta: delta,
	}
}

func scoreDueProximity(input ScoringInput) (float64, *domain.ScoreReason) {
	due := input.Task.Due
	if due == nil {
		return 0, nil
	}
	if due.Before(input.Now) {
		return 500, &domain.ScoreReason{
			Code:        domain.ReasonOverdue,
			Message:     "Past due!",
			WeightDelta: 500,
		}
	}
	days := due.Sub(input.Now).Hours() / 24
	delta := math.Max(0, 300-20*days)
	if delta == 0 {
		return 0, nil
	}
	return delta, &domain.ScoreReason{
		Code:        domain.ReasonDueSoon,
		Message:     formatDueMessage(days),
		WeightDelta: delta,
	}
}

func scoreEffort(input ScoringInput) (float64, *domain.ScoreReason) {
	effort := input.Task.EffortMinutes
	var delta float64
	switch {
	case effort <= 30:
		delta = 40
	case effort <= 60:
		delta = 25
	case effort <= 120:
		delta = 10
	default:
		delta = -math.Min(60, float64(effort-120)/4)
		return delta, &domain.ScoreReason{
			Code:        domain.ReasonLargeEffort,
			Message:     fmt.Sprintf("Large task (%d min)", effort),
			WeightDelta: delta,
		}
	}
	return delta, &domain.ScoreReason{
		Code:        domain.ReasonQuickWin,
		Message:     fmt.Sprintf("Fits a short block (%d min)", effort),
		WeightDelta: delta,
	}
}

func scoreDependencies(input ScoringInput) (float64, *domain.ScoreReason) {
	n := len(input.Task.Dependencies)
	if n == 0 {
		return 0, nil
	}
	delta := -50.0 * float64(n)
	return delta, &domain.ScoreReason{
		Code:        domain.ReasonDependencies,
		Message:     fmt.Sprintf("Waiting on %d dependenc%s", n, pluralY(n)),
		WeightDelta: delta,
	}
}

func scoreEarliestStart(input ScoringInput) (float64, *domain.ScoreReason) {
	es := input.Task.EarliestStart
	if es == nil {
		return 0, nil
	}
	switch {
	case !es.After(input.Now):
		return 30, &domain.ScoreReason{
			Code:        domain.ReasonWindowOpen,
			Message:     "Start window already open",
			WeightDelta: 30,
		}
	case es.Sub(input.Now) <= 24*time.Hour:
		return 10, &domain.ScoreReason{
			Code:        domain.ReasonWindowOpensSoon,
			Message:     "Start window opens within 24h",
			WeightDelta: 10,
		}
	}
	return 0, nil
}

func formatDueMessage(days float64) string {
	switch {
	case days < 1:
		return "Due today"
	case days < 2:
		return "Due tomorrow"
	case days <= 7:
		return "Due this week"
	default:
		return "Upcoming deadline"
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
