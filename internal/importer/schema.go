// Package importer reads backlog files for the multi-task planner: tasks,
// existing calendar events and optional preference overrides. Files are
// YAML; JSON is accepted as a YAML subset.
package importer

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// BacklogFile is the top-level document of a backlog file.
type BacklogFile struct {
	Preferences *PreferencesImport `yaml:"preferences,omitempty"`
	Tasks       []TaskImport       `yaml:"tasks"`
	Events      []EventImport      `yaml:"events,omitempty"`
}

// PreferencesImport overrides configured planner preferences field by field.
type PreferencesImport struct {
	TimeZone                   *string           `yaml:"time_zone,omitempty"`
	WorkDays                   []string          `yaml:"work_days,omitempty"`
	WorkWindow                 *WorkWindowImport `yaml:"work_window,omitempty"`
	BreakMinutes               *int              `yaml:"break_minutes,omitempty"`
	MinBlockMinutes            *int              `yaml:"min_block_minutes,omitempty"`
	ContextSwitchBufferMinutes *int              `yaml:"context_switch_buffer_minutes,omitempty"`
	TravelBufferMinutes        *int              `yaml:"travel_buffer_minutes,omitempty"`
	ResolveConflicts           *string           `yaml:"resolve_conflicts,omitempty"`
}

type WorkWindowImport struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

// TaskImport is one backlog item. Times are RFC3339 or a local
// YYYY-MM-DD[THH:MM] in the planner's timezone.
type TaskImport struct {
	ID            string   `yaml:"id,omitempty"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description,omitempty"`
	EffortMinutes int      `yaml:"effort_minutes"`
	EarliestStart *string  `yaml:"earliest_start,omitempty"`
	LatestEnd     *string  `yaml:"latest_end,omitempty"`
	Due           *string  `yaml:"due,omitempty"`
	Priority      *int     `yaml:"priority,omitempty"`
	Dependencies  []string `yaml:"dependencies,omitempty"`
}

// EventImport is an existing calendar entry. Busy defaults to true.
type EventImport struct {
	Title string `yaml:"title"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Busy  *bool  `yaml:"busy,omitempty"`
}

// LoadBacklog reads and decodes a backlog file.
func LoadBacklog(path string) (*BacklogFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeBacklog(f)
}

// DecodeBacklog decodes a backlog document, rejecting unknown fields.
func DecodeBacklog(r io.Reader) (*BacklogFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file BacklogFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return &file, nil
		}
		return nil, fmt.Errorf("parsing backlog file: %w", err)
	}
	return &file, nil
}
