package config

import (
	"errors"
	"slices"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate returns every invalid setting as domain.ValidationErrors, or nil.
func (c *Config) Validate() error {
	var errs domain.ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, domain.ValidationError{Field: field, Value: value, Message: msg})
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, domain.ValidationError{Field: "timezone", Value: c.Timezone, Message: "unknown IANA timezone", Err: domain.ErrInvalidTimezone})
	}
	if c.UserID == "" {
		add("user_id", c.UserID, "must not be empty")
	}
	if c.Database.Path == "" {
		add("database.path", c.Database.Path, "must not be empty")
	}
	if !slices.Contains(ValidLogLevels(), c.Log.Level) {
		add("log.level", c.Log.Level, "must be one of debug, info, warn, error")
	}
	if !slices.Contains(ValidLogFormats(), c.Log.Format) {
		add("log.format", c.Log.Format, "must be text or json")
	}

	if c.Scheduling.MaxOccurrences < 1 {
		add("scheduling.max_occurrences", c.Scheduling.MaxOccurrences, "must be at least 1")
	}
	errs = append(errs, c.validateOverlap()...)

	for _, d := range c.Planner.WorkDays {
		if _, ok := timewin.ParseWeekday(d); !ok {
			add("planner.work_days", d, "not a weekday")
		}
	}
	var pe domain.ValidationErrors
	if err := c.Preferences().Validate(); errors.As(err, &pe) {
		errs = append(errs, prefixed("planner.", pe, "time_zone")...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *Config) validateOverlap() domain.ValidationErrors {
	o := c.Scheduling.Overlap
	var errs domain.ValidationErrors
	if _, ok := domain.ParseOverlapMode(o.Mode); !ok {
		errs = append(errs, domain.ValidationError{Field: "scheduling.overlap.mode", Value: o.Mode, Message: "must be none, soft or allow", Err: domain.ErrInvalidIntent})
	}
	var pe domain.ValidationErrors
	if err := c.OverlapPolicy().Validate(); errors.As(err, &pe) {
		errs = append(errs, prefixed("scheduling.", pe, "overlap.mode")...)
	}
	return errs
}

// prefixed re-roots nested field names, dropping a field already reported
// at the top level.
func prefixed(prefix string, in domain.ValidationErrors, skip string) domain.ValidationErrors {
	var out domain.ValidationErrors
	for _, e := range in {
		if e.Field == skip {
			continue
		}
		e.Field = prefix + e.Field
		out = append(out, e)
	}
	return out
}
