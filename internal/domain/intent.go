package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// MinDurationMinutes is the floor applied to every schedule intent.
	MinDurationMinutes = 25
	// DefaultDurationMinutes is used when the request names no duration.
	DefaultDurationMinutes = 60
	// DefaultPriority is the middle of the 1–3 priority range.
	DefaultPriority = 2
)

// ClockTime is an explicit local wall-clock time requested by the user.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// NthWeekday selects one weekday per month: N in 1..5, or -1 for the last one.
type NthWeekday struct {
	N       int
	Weekday time.Weekday
}

// Cadence is the recurrence pattern of an intent. Kind is the discriminator;
// DaysOfWeek and Interval apply to weekly, biweekly and custom; Nth applies to
// custom only.
type Cadence struct {
	Kind       CadenceKind
	DaysOfWeek []time.Weekday
	Interval   int
	Nth        *NthWeekday
}

func Once() Cadence          { return Cadence{Kind: CadenceOnce} }
func Daily() Cadence         { return Cadence{Kind: CadenceDaily} }
func EveryOtherDay() Cadence { return Cadence{Kind: CadenceEveryOtherDay} }
func Monthly() Cadence       { return Cadence{Kind: CadenceMonthly} }

// Weekly repeats on the given weekdays every week. No days means the
// weekday of the horizon start.
func Weekly(days ...time.Weekday) Cadence {
	return Cadence{Kind: CadenceWeekly, DaysOfWeek: normalizeDays(days), Interval: 1}
}

// Biweekly repeats on the given weekdays every second week.
func Biweekly(days ...time.Weekday) Cadence {
	return Cadence{Kind: CadenceBiweekly, DaysOfWeek: normalizeDays(days), Interval: 2}
}

// EveryNWeeks repeats on the given weekdays every interval weeks.
func EveryNWeeks(interval int, days ...time.Weekday) Cadence {
	return Cadence{Kind: CadenceCustom, DaysOfWeek: normalizeDays(days), Interval: interval}
}

// NthWeekdayOfMonth repeats on e.g. the first Monday every interval months.
func NthWeekdayOfMonth(n int, wd time.Weekday, interval int) Cadence {
	return Cadence{Kind: CadenceCustom, Interval: interval, Nth: &NthWeekday{N: n, Weekday: wd}}
}

// EffectiveInterval returns the interval with the variant's default applied.
func (c Cadence) EffectiveInterval() int {
	switch {
	case c.Interval > 0:
		return c.Interval
	case c.Kind == CadenceBiweekly:
		return 2
	default:
		return 1
	}
}

func (c Cadence) String() string {
	switch c.Kind {
	case CadenceWeekly, CadenceBiweekly:
		return fmt.Sprintf("%s on %s", c.Kind, formatDays(c.DaysOfWeek))
	case CadenceCustom:
		if c.Nth != nil {
			return fmt.Sprintf("custom: %s %s every %d month(s)", ordinal(c.Nth.N), c.Nth.Weekday, c.EffectiveInterval())
		}
		return fmt.Sprintf("custom: %s every %d week(s)", formatDays(c.DaysOfWeek), c.EffectiveInterval())
	}
	return string(c.Kind)
}

// Validate checks that the variant is known and its payload fits it.
func (c Cadence) Validate() error {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg, Err: ErrInvalidCadence})
	}

	if !ValidCadenceKinds[c.Kind] {
		add("cadence.kind", c.Kind, "unknown cadence variant")
		return errs
	}
	for _, d := range c.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			add("cadence.days_of_week", d, "weekday out of range")
		}
	}
	if c.Interval < 0 {
		add("cadence.interval", c.Interval, "must not be negative")
	}

	switch c.Kind {
	case CadenceOnce, CadenceDaily, CadenceEveryOtherDay, CadenceMonthly:
		if len(c.DaysOfWeek) > 0 {
			add("cadence.days_of_week", c.DaysOfWeek, "only weekly, biweekly and custom cadences take weekdays")
		}
		if c.Nth != nil {
			add("cadence.nth", *c.Nth, "only custom cadences take an nth weekday")
		}
	case CadenceWeekly, CadenceBiweekly:
		if c.Nth != nil {
			add("cadence.nth", *c.Nth, "only custom cadences take an nth weekday")
		}
	case CadenceCustom:
		if c.Nth == nil && len(c.DaysOfWeek) == 0 {
			add("cadence", c.Kind, "custom cadence needs weekdays or an nth weekday")
		}
		if c.Nth != nil {
			if c.Nth.N == 0 || c.Nth.N < -1 || c.Nth.N > 5 {
				add("cadence.nth.n", c.Nth.N, "must be 1..5 or -1 (last)")
			}
			if c.Nth.Weekday < time.Sunday || c.Nth.Weekday > time.Saturday {
				add("cadence.nth.weekday", c.Nth.Weekday, "weekday out of range")
			}
		}
	}
	return errs.orNil()
}

// UnifiedScheduleIntent is the structured form of a free-text scheduling request.
// StartDate and EndDate are local midnights in Timezone.
type UnifiedScheduleIntent struct {
	Goal            string
	DurationMinutes int
	Cadence         Cadence
	Window          Window
	StartDate       time.Time
	EndDate         *time.Time
	Count           *int
	Timezone        string
	Priority        int
	SeedTime        *ClockTime
}

// Duration returns DurationMinutes as a time.Duration.
func (u UnifiedScheduleIntent) Duration() time.Duration {
	return time.Duration(u.DurationMinutes) * time.Minute
}

// Location loads the intent's IANA timezone.
func (u UnifiedScheduleIntent) Location() (*time.Location, error) {
	return LoadLocation(u.Timezone)
}

// Validate enforces every USI invariant. It is called once at the boundary so
// later stages never see partial state.
func (u UnifiedScheduleIntent) Validate() error {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg, Err: ErrInvalidIntent})
	}

	if _, err := LoadLocation(u.Timezone); err != nil {
		errs = append(errs, ValidationError{Field: "timezone", Value: u.Timezone, Message: "unknown IANA timezone", Err: ErrInvalidTimezone})
	}
	if err := u.Cadence.Validate(); err != nil {
		if ve, ok := err.(ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}
	if strings.TrimSpace(u.Goal) == "" {
		add("goal", u.Goal, "is required")
	}
	if u.DurationMinutes < MinDurationMinutes {
		add("duration_minutes", u.DurationMinutes, fmt.Sprintf("must be at least %d", MinDurationMinutes))
	}
	if !validWindows[u.Window] {
		add("window", u.Window, "unknown window")
	}
	if u.StartDate.IsZero() {
		add("start_date", u.StartDate, "is required")
	}
	if u.EndDate != nil && u.EndDate.Before(u.StartDate) {
		add("end_date", u.EndDate.Format("2006-01-02"), "must not be before start_date")
	}
	if u.Count != nil && *u.Count < 1 {
		add("count", *u.Count, "must be at least 1")
	}
	if u.Priority < 1 || u.Priority > 3 {
		add("priority", u.Priority, "must be 1..3")
	}
	if u.SeedTime != nil && !u.SeedTime.Valid() {
		add("seed_time", *u.SeedTime, "not a valid clock time")
	}
	return errs.orNil()
}

// LoadLocation resolves an IANA timezone name. An empty name is rejected
// rather than silently meaning UTC.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("timezone is required: %w", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, ErrInvalidTimezone)
	}
	return loc, nil
}

func normalizeDays(days []time.Weekday) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

func formatDays(days []time.Weekday) string {
	if len(days) == 0 {
		return "start weekday"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, ",")
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "first"
	case 2:
		return "second"
	case 3:
		return "third"
	case 4:
		return "fourth"
	case 5:
		return "fifth"
	case -1:
		return "last"
	}
	return fmt.Sprintf("#%d", n)
}
