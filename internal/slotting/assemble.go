package slotting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/recurrence"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

// BaselineConfidence is attached to every draft the slotter produces.
const BaselineConfidence = 0.7

var seriesNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://timeblock.dev/series"))

// DropReason explains why an occurrence produced no draft.
type DropReason string

const (
	DropExhausted      DropReason = "exhausted"
	DropDailyCap       DropReason = "daily_cap"
	DropOutsideHorizon DropReason = "outside_horizon"
	DropInPast         DropReason = "in_past"
)

// Drop records one occurrence that was discarded.
type Drop struct {
	Date   time.Time
	Reason DropReason
}

// Options carries the per-call knobs of the slotter.
type Options struct {
	Now time.Time
	// DailyCap limits accepted drafts per local day; zero or less means unlimited.
	DailyCap int
	Policy   domain.OverlapPolicy
}

// Result is the slotter's output: accepted drafts in occurrence order plus
// the occurrences that were dropped.
type Result struct {
	Drafts  []domain.EventDraft
	Dropped []Drop
}

// SeriesID derives the deterministic series id from the series-defining
// fields of u: goal, cadence kind, start date and end date.
func SeriesID(u domain.UnifiedScheduleIntent, loc *time.Location) string {
	end := ""
	if u.EndDate != nil {
		end = timewin.DateKey(*u.EndDate, loc)
	}
	key := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(u.Goal)),
		string(u.Cadence.Kind),
		timewin.DateKey(u.StartDate, loc),
		end,
	}, "|")
	return uuid.NewSHA1(seriesNamespace, []byte(key)).String()
}

// DraftID derives a content-addressed draft id from its series and start.
func DraftID(seriesID string, start time.Time) string {
	ns, err := uuid.Parse(seriesID)
	if err != nil {
		ns = seriesNamespace
	}
	return uuid.NewSHA1(ns, []byte(start.UTC().Format(time.RFC3339))).String()
}

// Rationale is the human-readable explanation attached to a draft.
func Rationale(u domain.UnifiedScheduleIntent) string {
	return fmt.Sprintf("Proposed %d min block for %q", u.DurationMinutes, u.Goal)
}

// Slot places each occurrence of u: seed, probe, cap, assemble, clamp.
// busy is never mutated; accepted drafts are added to a private working copy
// so drafts from one call never collide with each other.
func Slot(u domain.UnifiedScheduleIntent, occurrences []time.Time, busy []domain.BusyInterval, opts Options) (Result, error) {
	if err := u.Validate(); err != nil {
		return Result{}, err
	}
	if err := opts.Policy.Validate(); err != nil {
		return Result{}, err
	}
	loc, err := u.Location()
	if err != nil {
		return Result{}, err
	}
	prober, err := NewProber(opts.Policy, u.Goal, opts.Now)
	if err != nil {
		return Result{}, err
	}

	working := make([]domain.BusyInterval, len(busy))
	copy(working, busy)

	seriesID := SeriesID(u, loc)
	perDay := make(map[string]int)
	capped := func(t time.Time) bool {
		return opts.DailyCap > 0 && perDay[timewin.DateKey(t, loc)] >= opts.DailyCap
	}

	var res Result
	var accepted []domain.EventDraft
	for _, occ := range occurrences {
		seed := Seed(occ, u.Window, u.SeedTime, loc)
		if capped(seed) {
			res.Dropped = append(res.Dropped, Drop{Date: occ, Reason: DropDailyCap})
			continue
		}
		start, ok := prober.Find(seed, u.Duration(), working)
		if !ok {
			res.Dropped = append(res.Dropped, Drop{Date: occ, Reason: DropExhausted})
			continue
		}
		if capped(start) {
			res.Dropped = append(res.Dropped, Drop{Date: occ, Reason: DropDailyCap})
			continue
		}
		end := start.Add(u.Duration())
		perDay[timewin.DateKey(start, loc)]++
		working = append(working, domain.BusyInterval{Start: start, End: end})
		accepted = append(accepted, domain.EventDraft{
			ID:         DraftID(seriesID, start),
			Title:      u.Goal,
			StartsAt:   start,
			EndsAt:     end,
			Rationale:  Rationale(u),
			Confidence: BaselineConfidence,
			SeriesID:   seriesID,
		})
	}

	kept, dropped := Clamp(accepted, u, opts.Now, loc)
	res.Drafts = kept
	res.Dropped = append(res.Dropped, dropped...)
	return res, nil
}

// Clamp drops drafts starting before the horizon start, after the last
// horizon day, or before now. It runs after slotting regardless of what the
// earlier stages filtered.
func Clamp(drafts []domain.EventDraft, u domain.UnifiedScheduleIntent, now time.Time, loc *time.Location) ([]domain.EventDraft, []Drop) {
	hStart, hEnd := recurrence.Horizon(u, loc)
	limit := hEnd.AddDate(0, 0, 1)

	kept := make([]domain.EventDraft, 0, len(drafts))
	var dropped []Drop
	for _, d := range drafts {
		date := timewin.StartOfDay(d.StartsAt, loc)
		switch {
		case d.StartsAt.Before(hStart) || !d.StartsAt.Before(limit):
			dropped = append(dropped, Drop{Date: date, Reason: DropOutsideHorizon})
		case !now.IsZero() && d.StartsAt.Before(now):
			dropped = append(dropped, Drop{Date: date, Reason: DropInPast})
		default:
			kept = append(kept, d)
		}
	}
	return kept, dropped
}
