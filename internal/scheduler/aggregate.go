package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

// Aggregate groups events by local date and builds the weekly rollup,
// anchored on the Monday on or before the earliest event, or now when
// nothing was placed. Events are sorted chronologically in place.
func Aggregate(events []domain.PlannedEvent, now time.Time, loc *time.Location) ([]domain.DayPlan, domain.WeeklyRollup) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	byDay := make(map[string][]domain.PlannedEvent)
	var keys []string
	rollup := domain.WeeklyRollup{ByDayMinutes: make(map[string]int)}
	for _, ev := range events {
		key := timewin.DateKey(ev.Start, loc)
		if _, seen := byDay[key]; !seen {
			keys = append(keys, key)
		}
		byDay[key] = append(byDay[key], ev)
		rollup.ByDayMinutes[key] += ev.Minutes()
		rollup.TotalMinutes += ev.Minutes()
		rollup.TotalEvents++
	}
	sort.Strings(keys)

	daily := make([]domain.DayPlan, 0, len(keys))
	for _, k := range keys {
		daily = append(daily, domain.DayPlan{DateKey: k, Events: byDay[k]})
	}

	anchor := now
	if len(events) > 0 {
		anchor = events[0].Start
	}
	rollup.WeekStartDateKey = timewin.DateKey(timewin.WeekStart(anchor, loc), loc)
	return daily, rollup
}
