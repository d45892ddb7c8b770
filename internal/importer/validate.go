package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

// ValidateBacklog checks a backlog file before conversion and returns every
// problem found. Times are checked against loc, or against the file's own
// time_zone when it sets one.
func ValidateBacklog(file *BacklogFile, loc *time.Location) []error {
	var errs []error

	if p := file.Preferences; p != nil {
		errs = append(errs, validatePreferences(p)...)
		if p.TimeZone != nil {
			if l, err := domain.LoadLocation(*p.TimeZone); err == nil {
				loc = l
			}
		}
	}

	ids := make(map[string]bool)
	for i, t := range file.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", field))
		}
		if t.EffortMinutes < 0 {
			errs = append(errs, fmt.Errorf("%s.effort_minutes must not be negative", field))
		}
		if t.ID != "" {
			if ids[t.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", field, t.ID))
			}
			ids[t.ID] = true
		}
		if t.Priority != nil && *t.Priority < 0 {
			errs = append(errs, fmt.Errorf("%s.priority must not be negative", field))
		}
		errs = append(errs, validateOptionalTime(field+".earliest_start", t.EarliestStart, loc)...)
		errs = append(errs, validateOptionalTime(field+".latest_end", t.LatestEnd, loc)...)
		errs = append(errs, validateOptionalTime(field+".due", t.Due, loc)...)
		if t.EarliestStart != nil && t.LatestEnd != nil {
			s, sErr := timewin.ParseInstant(*t.EarliestStart, loc)
			e, eErr := timewin.ParseInstant(*t.LatestEnd, loc)
			if sErr == nil && eErr == nil && !e.After(s) {
				errs = append(errs, fmt.Errorf("%s.latest_end must be after earliest_start", field))
			}
		}
	}

	for i, ev := range file.Events {
		field := fmt.Sprintf("events[%d]", i)
		s, sErr := timewin.ParseInstant(ev.Start, loc)
		if sErr != nil {
			errs = append(errs, fmt.Errorf("%s.start: %w", field, sErr))
		}
		e, eErr := timewin.ParseInstant(ev.End, loc)
		if eErr != nil {
			errs = append(errs, fmt.Errorf("%s.end: %w", field, eErr))
		}
		if sErr == nil && eErr == nil && !e.After(s) {
			errs = append(errs, fmt.Errorf("%s.end must be after start", field))
		}
	}
	return errs
}

func validatePreferences(p *PreferencesImport) []error {
	var errs []error
	if p.TimeZone != nil {
		if _, err := domain.LoadLocation(*p.TimeZone); err != nil {
			errs = append(errs, fmt.Errorf("preferences.time_zone: %w", err))
		}
	}
	for _, d := range p.WorkDays {
		if _, ok := timewin.ParseWeekday(d); !ok {
			errs = append(errs, fmt.Errorf("preferences.work_days: invalid weekday %q", d))
		}
	}
	if p.ResolveConflicts != nil {
		if _, ok := domain.ParseConflictMode(*p.ResolveConflicts); !ok {
			errs = append(errs, fmt.Errorf("preferences.resolve_conflicts: invalid value %q", *p.ResolveConflicts))
		}
	}
	return errs
}

func validateOptionalTime(field string, v *string, loc *time.Location) []error {
	if v == nil {
		return nil
	}
	if _, err := timewin.ParseInstant(*v, loc); err != nil {
		return []error{fmt.Errorf("%s: %w", field, err)}
	}
	return nil
}
