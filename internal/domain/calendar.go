package domain

import (
	"fmt"
	"regexp"
	"time"
)

// BusyInterval is a committed half-open range [Start, End).
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

func (b BusyInterval) Valid() bool { return b.End.After(b.Start) }

// Overlaps reports whether b intersects the half-open range [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// OverlapMinutes returns how many minutes of [start, end) fall inside b.
func (b BusyInterval) OverlapMinutes(start, end time.Time) int {
	lo, hi := start, end
	if b.Start.After(lo) {
		lo = b.Start
	}
	if b.End.Before(hi) {
		hi = b.End
	}
	if !hi.After(lo) {
		return 0
	}
	return int(hi.Sub(lo) / time.Minute)
}

// OverlapPolicy governs whether a candidate slot touching busy time may be accepted.
type OverlapPolicy struct {
	Mode                 OverlapMode
	MaxOverlapMinutes    int
	StackableGoalPattern string
}

// Validate checks the mode and that the stackable pattern compiles.
func (p OverlapPolicy) Validate() error {
	var errs ValidationErrors
	if _, ok := ParseOverlapMode(string(p.Mode)); !ok {
		errs = append(errs, ValidationError{Field: "overlap.mode", Value: p.Mode, Message: "must be none, soft or allow", Err: ErrInvalidIntent})
	}
	if p.MaxOverlapMinutes < 0 {
		errs = append(errs, ValidationError{Field: "overlap.max_overlap_minutes", Value: p.MaxOverlapMinutes, Message: "must not be negative", Err: ErrInvalidIntent})
	}
	if _, err := p.Matcher(); err != nil {
		errs = append(errs, ValidationError{Field: "overlap.stackable_goal_pattern", Value: p.StackableGoalPattern, Message: err.Error(), Err: ErrInvalidIntent})
	}
	return errs.orNil()
}

// Matcher compiles the stackable pattern case-insensitively. An empty
// pattern yields a nil matcher, meaning no goal is stackable.
func (p OverlapPolicy) Matcher() (*regexp.Regexp, error) {
	if p.StackableGoalPattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + p.StackableGoalPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling stackable pattern: %w", err)
	}
	return re, nil
}

// EventDraft is a proposed, unconfirmed calendar block produced by a proposal.
type EventDraft struct {
	ID         string
	Title      string
	StartsAt   time.Time
	EndsAt     time.Time
	Rationale  string
	Confidence float64
	SeriesID   string
}

// StoredDraft is a draft as the draft store keeps it, with its review state.
type StoredDraft struct {
	EventDraft
	UserID    string
	Status    DraftStatus
	CreatedAt time.Time
}

// ExistingEvent is a calendar entry the allocator must respect. It covers
// both externally supplied events and blocks the allocator placed itself.
// Busy defaults to true when unset.
type ExistingEvent struct {
	Title string
	Start time.Time
	End   time.Time
	Busy  *bool
}

func (e ExistingEvent) IsBusy() bool {
	return BoolFromPtrWithDefault(true, e.Busy)
}

func (e ExistingEvent) Interval() BusyInterval {
	return BusyInterval{Start: e.Start, End: e.End}
}

// BusyIntervals keeps the busy, well-formed events as intervals.
func BusyIntervals(events []ExistingEvent) []BusyInterval {
	out := make([]BusyInterval, 0, len(events))
	for _, e := range events {
		if !e.IsBusy() {
			continue
		}
		if iv := e.Interval(); iv.Valid() {
			out = append(out, iv)
		}
	}
	return out
}

// SourcePlanner marks cached busy rows that came from persisted allocator placements.
const SourcePlanner = "planner"

// CachedBusy is a busy interval held in the local cache, either imported
// from a calendar source or placed by the allocator.
type CachedBusy struct {
	Source string
	Title  string
	Start  time.Time
	End    time.Time
	TaskID string
}

func (c CachedBusy) Interval() BusyInterval {
	return BusyInterval{Start: c.Start, End: c.End}
}

func (c CachedBusy) AsExisting() ExistingEvent {
	return ExistingEvent{Title: c.Title, Start: c.Start, End: c.End}
}
