// Package timewin holds the calendar arithmetic shared by both pipelines:
// local day boundaries, date keys and busy-interval subtraction.
package timewin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
)

// DateKeyLayout is the YYYY-MM-DD layout used for day grouping and dedupe keys.
const DateKeyLayout = "2006-01-02"

// DateKey formats t as a local calendar date in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

// At returns the wall-clock time hour:minute on the local day containing day.
// Hour 24 resolves to the following midnight.
func At(day time.Time, hour, minute int, loc *time.Location) time.Time {
	l := day.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), hour, minute, 0, 0, loc)
}

// AddDays steps calendar days in loc, preserving wall-clock time across DST.
func AddDays(t time.Time, n int, loc *time.Location) time.Time {
	return t.In(loc).AddDate(0, 0, n)
}

// WeekStart returns local midnight of the Monday on or before t.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Later returns the later of a and b.
func Later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// Earlier returns the earlier of a and b.
func Earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Merge sorts busy intervals and coalesces overlapping or touching ones.
func Merge(busy []domain.BusyInterval) []domain.BusyInterval {
	valid := make([]domain.BusyInterval, 0, len(busy))
	for _, b := range busy {
		if b.Valid() {
			valid = append(valid, b)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	var out []domain.BusyInterval
	for _, b := range valid {
		if n := len(out); n > 0 && !b.Start.After(out[n-1].End) {
			out[n-1].End = Later(out[n-1].End, b.End)
			continue
		}
		out = append(out, b)
	}
	return out
}

// FreeBlocks subtracts busy time from [start, end) and returns the gaps in
// chronological order.
func FreeBlocks(start, end time.Time, busy []domain.BusyInterval) []domain.BusyInterval {
	if !end.After(start) {
		return nil
	}
	var free []domain.BusyInterval
	cursor := start
	for _, b := range Merge(busy) {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(end) {
			break
		}
		if b.Start.After(cursor) {
			free = append(free, domain.BusyInterval{Start: cursor, End: b.Start})
		}
		cursor = Later(cursor, b.End)
		if !cursor.Before(end) {
			return free
		}
	}
	if cursor.Before(end) {
		free = append(free, domain.BusyInterval{Start: cursor, End: end})
	}
	return free
}

// OverlapMinutes sums, per busy interval, the minutes it shares with [start, end).
func OverlapMinutes(start, end time.Time, busy []domain.BusyInterval) int {
	total := 0
	for _, b := range busy {
		total += b.OverlapMinutes(start, end)
	}
	return total
}

// AnyOverlap reports whether [start, end) intersects any busy interval.
func AnyOverlap(start, end time.Time, busy []domain.BusyInterval) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// ParseWeekday accepts an English weekday name or its three-letter form.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return 0, false
}

var instantLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04", DateKeyLayout}

// ParseInstant reads RFC3339, or a local date-time or bare date in loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q (want RFC3339 or YYYY-MM-DD[THH:MM])", s)
}
