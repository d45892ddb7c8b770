package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTimezone indicates a missing or unknown IANA timezone.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidCadence indicates an unknown cadence variant or a payload
	// that does not fit its variant.
	ErrInvalidCadence = errors.New("invalid cadence")

	// ErrInvalidIntent indicates a schedule intent that violates its invariants.
	ErrInvalidIntent = errors.New("invalid schedule intent")

	// ErrInvalidPreferences indicates planner preferences that cannot drive the allocator.
	ErrInvalidPreferences = errors.New("invalid planner preferences")
)

// ValidationError is a single boundary validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

func (e ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects every failure found in one validation pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes each failure so errors.Is matches the sentinel it carries.
func (e ValidationErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i := range e {
		out[i] = e[i]
	}
	return out
}

// orNil converts an empty collection into a nil error.
func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
