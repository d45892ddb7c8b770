package app

import (
	"io"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/slotting"
)

type InterpretRequest struct {
	Text     string
	Timezone string
	Now      *time.Time
}

// ProposeRequest runs the single-intent proposal. Intent, when set, is
// used as-is and Text is ignored.
type ProposeRequest struct {
	UserID   string
	Text     string
	Intent   *domain.UnifiedScheduleIntent
	Timezone string
	Now      *time.Time

	// DailyCap <= 0 means unlimited; MaxOccurrences <= 0 means the expander default.
	DailyCap       int
	MaxOccurrences int
	Policy         domain.OverlapPolicy

	// Busy is added to the cached busy intervals for the horizon.
	Busy    []domain.BusyInterval
	Persist bool
}

type ProposeResponse struct {
	Intent      domain.UnifiedScheduleIntent
	Occurrences []time.Time
	Drafts      []domain.EventDraft
	Dropped     []slotting.Drop
	CachedBusy  int
	Saved       int
}

// PlanRequest runs the task allocator. With UseCache, imported busy
// intervals for the planning window join Events.
type PlanRequest struct {
	UserID      string
	Now         *time.Time
	Tasks       []domain.PlannerTaskInput
	Events      []domain.ExistingEvent
	Preferences domain.PlannerPreferences
	UseCache    bool
	Persist     bool
}

type PlanResponse struct {
	Result     domain.PlannerResult
	CachedBusy int
	Persisted  int
}

type CalendarImportRequest struct {
	UserID   string
	Source   string
	Reader   io.Reader
	Timezone string
	From     time.Time
	To       time.Time
}

type CalendarImportResponse struct {
	Parsed    int
	Busy      int
	Free      int
	Skipped   []error
	Truncated []string
}
