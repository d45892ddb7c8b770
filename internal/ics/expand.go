package ics

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/alexanderramin/timeblock/internal/domain"
)

// DefaultMaxPerEvent caps how many instances one recurring VEVENT may yield.
const DefaultMaxPerEvent = 5000

// Expansion is the concrete calendar for a window. Truncated lists the UIDs
// whose recurrence hit the per-event cap.
type Expansion struct {
	Events    []domain.ExistingEvent
	Truncated []string
}

// Expand turns parsed events into instances overlapping [from, to).
// RRULE series are expanded with EXDATE removal and RECURRENCE-ID
// overrides; cancelled instances disappear and transparent ones are kept
// but marked free.
func Expand(events []Event, from, to time.Time, maxPerEvent int) (Expansion, error) {
	var res Expansion
	if to.Before(from) {
		return res, fmt.Errorf("expand: window end %s before start %s", to, from)
	}
	if maxPerEvent <= 0 {
		maxPerEvent = DefaultMaxPerEvent
	}

	overrides := make(map[string][]Event)
	var bases []Event
	for _, ev := range events {
		if ev.RecurrenceID != nil {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
			continue
		}
		bases = append(bases, ev)
	}

	for _, ev := range bases {
		if ev.RawRRule == "" {
			if inst, ok := instance(ev, from, to); ok {
				res.Events = append(res.Events, inst)
			}
			continue
		}

		starts, err := occurrences(ev, from, to)
		if err != nil {
			return res, fmt.Errorf("expanding %s: %w", ev.UID, err)
		}
		if len(starts) > maxPerEvent {
			starts = starts[:maxPerEvent]
			res.Truncated = append(res.Truncated, ev.UID)
		}
		dur := ev.End.Sub(ev.Start)
		for _, s := range starts {
			occ := ev
			occ.Start, occ.End = s, s.Add(dur)
			if ov, ok := findOverride(overrides[ev.UID], s); ok {
				occ = ov
			}
			if inst, ok := instance(occ, from, to); ok {
				res.Events = append(res.Events, inst)
			}
		}
	}

	sort.SliceStable(res.Events, func(i, j int) bool {
		return res.Events[i].Start.Before(res.Events[j].Start)
	})
	return res, nil
}

// occurrences returns the series starts whose instance can overlap the
// window; the lower bound is widened by the event's duration.
func occurrences(ev Event, from, to time.Time) ([]time.Time, error) {
	rule, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		return nil, fmt.Errorf("parsing RRULE %q: %w", ev.RawRRule, err)
	}
	rule.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}
	loc := ev.Start.Location()
	lo := from.Add(-ev.End.Sub(ev.Start)).In(loc)
	return set.Between(lo, to.In(loc), true), nil
}

func findOverride(overrides []Event, start time.Time) (Event, bool) {
	for _, ov := range overrides {
		if ov.RecurrenceID.Equal(start) {
			return ov, true
		}
	}
	return Event{}, false
}

func instance(ev Event, from, to time.Time) (domain.ExistingEvent, bool) {
	if ev.Cancelled || !ev.End.After(ev.Start) {
		return domain.ExistingEvent{}, false
	}
	if !ev.Start.Before(to) || !ev.End.After(from) {
		return domain.ExistingEvent{}, false
	}
	busy := !ev.Free
	return domain.ExistingEvent{Title: ev.Summary, Start: ev.Start, End: ev.End, Busy: &busy}, true
}
