package domain

import (
	"fmt"
	"time"
)

const (
	DefaultMinBlockMinutes        = 30
	DefaultContextSwitchBufferMin = 10
	DefaultTravelBufferMin        = 10
)

// PlannerTaskInput is one backlog item for the multi-task allocator.
type PlannerTaskInput struct {
	ID            string
	Title         string
	Description   string
	EffortMinutes int
	EarliestStart *time.Time
	LatestEnd     *time.Time
	Due           *time.Time
	Priority      *int
	Dependencies  []string
}

// EffectivePriority returns Priority or DefaultPriority when unset.
func (t PlannerTaskInput) EffectivePriority() int {
	return IntFromPtrWithDefault(DefaultPriority, t.Priority)
}

// WorkWindow is the daily working range in local hours; EndHour may be 24.
type WorkWindow struct {
	StartHour int
	EndHour   int
}

// PlannerPreferences configures the allocator. Nil pointers take the documented defaults.
type PlannerPreferences struct {
	TimeZone                   string
	WorkDays                   []time.Weekday
	WorkWindow                 WorkWindow
	BreakMinutes               int
	MinBlockMinutes            *int
	ContextSwitchBufferMinutes *int
	TravelBufferMinutes        *int
	ResolveConflicts           ConflictMode
}

func (p PlannerPreferences) MinBlock() int {
	return IntFromPtrWithDefault(DefaultMinBlockMinutes, p.MinBlockMinutes)
}

func (p PlannerPreferences) ContextSwitchBuffer() int {
	return IntFromPtrWithDefault(DefaultContextSwitchBufferMin, p.ContextSwitchBufferMinutes)
}

func (p PlannerPreferences) TravelBuffer() int {
	return IntFromPtrWithDefault(DefaultTravelBufferMin, p.TravelBufferMinutes)
}

func (p PlannerPreferences) ConflictMode() ConflictMode {
	if p.ResolveConflicts == "" {
		return ConflictPush
	}
	return p.ResolveConflicts
}

func (p PlannerPreferences) Location() (*time.Location, error) {
	return LoadLocation(p.TimeZone)
}

// IsWorkDay reports whether wd is one of the configured work days.
func (p PlannerPreferences) IsWorkDay(wd time.Weekday) bool {
	for _, d := range p.WorkDays {
		if d == wd {
			return true
		}
	}
	return false
}

// Validate rejects preferences that would make the allocator meaningless.
func (p PlannerPreferences) Validate() error {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg, Err: ErrInvalidPreferences})
	}

	if _, err := LoadLocation(p.TimeZone); err != nil {
		errs = append(errs, ValidationError{Field: "time_zone", Value: p.TimeZone, Message: "unknown IANA timezone", Err: ErrInvalidTimezone})
	}
	if len(p.WorkDays) == 0 {
		add("work_days", p.WorkDays, "at least one work day is required")
	}
	for _, d := range p.WorkDays {
		if d < time.Sunday || d > time.Saturday {
			add("work_days", d, "weekday out of range")
		}
	}
	w := p.WorkWindow
	if w.StartHour < 0 || w.StartHour > 23 {
		add("work_window.start_hour", w.StartHour, "must be 0..23")
	}
	if w.EndHour < 1 || w.EndHour > 24 {
		add("work_window.end_hour", w.EndHour, "must be 1..24")
	}
	if w.EndHour <= w.StartHour {
		add("work_window", fmt.Sprintf("%d-%d", w.StartHour, w.EndHour), "end_hour must be after start_hour")
	}
	if p.BreakMinutes < 0 {
		add("break_minutes", p.BreakMinutes, "must not be negative")
	}
	if p.MinBlock() < 1 {
		add("min_block_minutes", p.MinBlock(), "must be positive")
	}
	if p.ContextSwitchBuffer() < 0 {
		add("context_switch_buffer_minutes", p.ContextSwitchBuffer(), "must not be negative")
	}
	if p.TravelBuffer() < 0 {
		add("travel_buffer_minutes", p.TravelBuffer(), "must not be negative")
	}
	if _, ok := ParseConflictMode(string(p.ResolveConflicts)); !ok {
		add("resolve_conflicts", p.ResolveConflicts, "must be push, shorten or decline")
	}
	return errs.orNil()
}

// PlannedEvent is a block of task effort placed by the allocator.
type PlannedEvent struct {
	TaskID string
	Title  string
	Start  time.Time
	End    time.Time
}

func (e PlannedEvent) Minutes() int { return int(e.End.Sub(e.Start) / time.Minute) }

// AsExisting returns the busy calendar entry the allocator re-adds for e.
func (e PlannedEvent) AsExisting() ExistingEvent {
	return ExistingEvent{Title: e.Title, Start: e.Start, End: e.End}
}

type DayPlan struct {
	DateKey string
	Events  []PlannedEvent
}

type WeeklyRollup struct {
	WeekStartDateKey string
	TotalEvents      int
	TotalMinutes     int
	ByDayMinutes     map[string]int
}

type ScoreReasonCode string

const (
	ReasonPriority        ScoreReasonCode = "PRIORITY"
	ReasonOverdue         ScoreReasonCode = "OVERDUE"
	ReasonDueSoon         ScoreReasonCode = "DUE_SOON"
	ReasonQuickWin        ScoreReasonCode = "QUICK_WIN"
	ReasonLargeEffort     ScoreReasonCode = "LARGE_EFFORT"
	ReasonDependencies    ScoreReasonCode = "DEPENDENCIES"
	ReasonWindowOpen      ScoreReasonCode = "WINDOW_OPEN"
	ReasonWindowOpensSoon ScoreReasonCode = "WINDOW_OPENS_SOON"
)

type ScoreReason struct {
	Code        ScoreReasonCode
	Message     string
	WeightDelta float64
}

// TaskOutcome reports what the allocator did with one task.
// AllocatedMinutes + RemainingMinutes == EffortMinutes.
type TaskOutcome struct {
	TaskID           string
	Title            string
	Score            float64
	Reasons          []ScoreReason
	EffortMinutes    int
	AllocatedMinutes int
	RemainingMinutes int
	Status           TaskStatus
}

type PlannerResult struct {
	Events             []PlannedEvent
	DailyPlan          []DayPlan
	WeeklyRollup       WeeklyRollup
	UnscheduledTaskIDs []string
	Outcomes           []TaskOutcome
}
