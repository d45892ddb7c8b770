// Package recurrence expands a schedule intent's cadence into concrete local
// calendar dates inside its horizon.
package recurrence

import (
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

const (
	// DefaultMaxOccurrences caps expansion when the caller passes no maximum.
	DefaultMaxOccurrences = 20
	// OpenHorizonDays bounds an intent that has no end date.
	OpenHorizonDays = 28
)

// Horizon returns the inclusive local-midnight bounds of u's expansion range.
func Horizon(u domain.UnifiedScheduleIntent, loc *time.Location) (start, end time.Time) {
	start = timewin.StartOfDay(u.StartDate, loc)
	if u.EndDate != nil {
		end = timewin.StartOfDay(*u.EndDate, loc)
	} else {
		end = start.AddDate(0, 0, OpenHorizonDays)
	}
	return start, end
}

// Expand returns the ordered occurrence dates of u as local midnights, every
// one inside the horizon, capped at min(u.Count, maxCount). maxCount <= 0
// means DefaultMaxOccurrences. The intent must already be validated.
func Expand(u domain.UnifiedScheduleIntent, maxCount int) ([]time.Time, error) {
	loc, err := u.Location()
	if err != nil {
		return nil, err
	}
	if err := u.Cadence.Validate(); err != nil {
		return nil, err
	}

	limit := maxCount
	if limit <= 0 {
		limit = DefaultMaxOccurrences
	}
	if u.Count != nil && *u.Count < limit {
		limit = *u.Count
	}

	start, end := Horizon(u, loc)
	if end.Before(start) {
		return nil, nil
	}
	ex := expander{start: start, end: end, limit: limit}

	c := u.Cadence
	switch c.Kind {
	case domain.CadenceOnce:
		ex.add(start)
	case domain.CadenceDaily:
		ex.stepDays(1)
	case domain.CadenceEveryOtherDay:
		ex.stepDays(2)
	case domain.CadenceWeekly, domain.CadenceBiweekly:
		ex.weekdays(c.DaysOfWeek, c.EffectiveInterval())
	case domain.CadenceMonthly:
		ex.monthly()
	case domain.CadenceCustom:
		if c.Nth != nil {
			ex.nthWeekday(*c.Nth, c.EffectiveInterval())
		} else {
			ex.weekdays(c.DaysOfWeek, c.EffectiveInterval())
		}
	}
	return ex.out, nil
}

type expander struct {
	start, end time.Time
	limit      int
	out        []time.Time
}

func (e *expander) full() bool { return len(e.out) >= e.limit }

func (e *expander) add(d time.Time) {
	if e.full() || d.Before(e.start) || d.After(e.end) {
		return
	}
	e.out = append(e.out, d)
}

func (e *expander) stepDays(step int) {
	for d := e.start; !d.After(e.end) && !e.full(); d = d.AddDate(0, 0, step) {
		e.add(d)
	}
}

// weekdays walks every day in range, keeping those whose weekday is selected
// and whose week (Monday-anchored, counted from the horizon start's week) is
// a multiple of interval.
func (e *expander) weekdays(days []time.Weekday, interval int) {
	selected := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		selected[d] = true
	}
	if len(selected) == 0 {
		selected[e.start.Weekday()] = true
	}
	anchor := timewin.WeekStart(e.start, e.start.Location())

	for d := e.start; !d.After(e.end) && !e.full(); d = d.AddDate(0, 0, 1) {
		if !selected[d.Weekday()] {
			continue
		}
		week := weeksBetween(anchor, timewin.WeekStart(d, d.Location()))
		if week%interval == 0 {
			e.add(d)
		}
	}
}

// monthly repeats on the horizon start's day of month, skipping months too
// short to contain it.
func (e *expander) monthly() {
	day := e.start.Day()
	y, m := e.start.Year(), e.start.Month()
	for i := 0; !e.full(); i++ {
		first := time.Date(y, m+time.Month(i), 1, 0, 0, 0, 0, e.start.Location())
		if first.After(e.end) {
			return
		}
		d := first.AddDate(0, 0, day-1)
		if d.Month() != first.Month() {
			continue
		}
		e.add(d)
	}
}

func (e *expander) nthWeekday(nth domain.NthWeekday, interval int) {
	y, m := e.start.Year(), e.start.Month()
	for i := 0; !e.full(); i += interval {
		first := time.Date(y, m+time.Month(i), 1, 0, 0, 0, 0, e.start.Location())
		if first.After(e.end) {
			return
		}
		if d, ok := NthWeekdayIn(first.Year(), first.Month(), nth, first.Location()); ok {
			e.add(d)
		}
	}
}

// NthWeekdayIn returns the nth weekday of the month (N = -1 for the last).
// ok is false when the month has no such day, e.g. a fifth Monday.
func NthWeekdayIn(year int, month time.Month, nth domain.NthWeekday, loc *time.Location) (time.Time, bool) {
	if nth.N == -1 {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
		back := (int(last.Weekday()) - int(nth.Weekday) + 7) % 7
		return last.AddDate(0, 0, -back), true
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	fwd := (int(nth.Weekday) - int(first.Weekday()) + 7) % 7
	d := first.AddDate(0, 0, fwd+7*(nth.N-1))
	if d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func weeksBetween(a, b time.Time) int {
	n := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 7) {
		n++
	}
	return n
}
