package testutil

import (
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/slotting"
)

// Monday is a fixed reference instant, Monday 2025-12-01 07:00 UTC.
var Monday = time.Date(2025, 12, 1, 7, 0, 0, 0, time.UTC)

type DraftOption func(*domain.EventDraft)

func WithSeries(id string) DraftOption {
	return func(d *domain.EventDraft) { d.SeriesID = id }
}

func WithTitle(title string) DraftOption {
	return func(d *domain.EventDraft) { d.Title = title }
}

// NewTestDraft builds a 30 minute draft at start with a content-addressed id.
func NewTestDraft(start time.Time, opts ...DraftOption) domain.EventDraft {
	d := domain.EventDraft{
		Title:      "walk",
		StartsAt:   start,
		EndsAt:     start.Add(30 * time.Minute),
		Rationale:  "Proposed 30 min block for \"walk\"",
		Confidence: slotting.BaselineConfidence,
		SeriesID:   "series-walk",
	}
	for _, opt := range opts {
		opt(&d)
	}
	d.ID = slotting.DraftID(d.SeriesID, d.StartsAt)
	return d
}

type TaskOption func(*domain.PlannerTaskInput)

func WithPriority(p int) TaskOption {
	return func(t *domain.PlannerTaskInput) { t.Priority = &p }
}

func WithDue(due time.Time) TaskOption {
	return func(t *domain.PlannerTaskInput) { t.Due = &due }
}

func WithDependencies(ids ...string) TaskOption {
	return func(t *domain.PlannerTaskInput) { t.Dependencies = ids }
}

func NewTestTask(id string, effortMinutes int, opts ...TaskOption) domain.PlannerTaskInput {
	t := domain.PlannerTaskInput{ID: id, Title: "Task " + id, EffortMinutes: effortMinutes}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WorkweekPreferences is a UTC Monday to Friday, 9 to 17 preference set.
func WorkweekPreferences() domain.PlannerPreferences {
	return domain.PlannerPreferences{
		TimeZone:   "UTC",
		WorkDays:   []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		WorkWindow: domain.WorkWindow{StartHour: 9, EndHour: 17},
	}
}
