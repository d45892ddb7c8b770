package importer

import (
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

// Backlog is a converted backlog file, ready for the planner.
type Backlog struct {
	Tasks       []domain.PlannerTaskInput
	Events      []domain.ExistingEvent
	Preferences domain.PlannerPreferences
}

// Convert applies the file's preference overrides to base and converts
// tasks and events. The file must have passed ValidateBacklog.
func Convert(file *BacklogFile, base domain.PlannerPreferences) (*Backlog, error) {
	prefs := ApplyPreferences(base, file.Preferences)
	loc, err := prefs.Location()
	if err != nil {
		return nil, err
	}

	out := &Backlog{Preferences: prefs}
	for _, t := range file.Tasks {
		task := domain.PlannerTaskInput{
			ID:            t.ID,
			Title:         t.Title,
			Description:   t.Description,
			EffortMinutes: t.EffortMinutes,
			Priority:      t.Priority,
			Dependencies:  t.Dependencies,
		}
		if task.EarliestStart, err = optionalTime(t.EarliestStart, loc); err != nil {
			return nil, err
		}
		if task.LatestEnd, err = optionalTime(t.LatestEnd, loc); err != nil {
			return nil, err
		}
		if task.Due, err = optionalTime(t.Due, loc); err != nil {
			return nil, err
		}
		out.Tasks = append(out.Tasks, task)
	}

	for _, ev := range file.Events {
		start, err := timewin.ParseInstant(ev.Start, loc)
		if err != nil {
			return nil, err
		}
		end, err := timewin.ParseInstant(ev.End, loc)
		if err != nil {
			return nil, err
		}
		out.Events = append(out.Events, domain.ExistingEvent{Title: ev.Title, Start: start, End: end, Busy: ev.Busy})
	}
	return out, nil
}

// ApplyPreferences overlays the non-nil fields of p onto base.
func ApplyPreferences(base domain.PlannerPreferences, p *PreferencesImport) domain.PlannerPreferences {
	if p == nil {
		return base
	}
	if p.TimeZone != nil {
		base.TimeZone = *p.TimeZone
	}
	if len(p.WorkDays) > 0 {
		days := make([]time.Weekday, 0, len(p.WorkDays))
		for _, d := range p.WorkDays {
			if wd, ok := timewin.ParseWeekday(d); ok {
				days = append(days, wd)
			}
		}
		base.WorkDays = days
	}
	if p.WorkWindow != nil {
		base.WorkWindow = domain.WorkWindow{StartHour: p.WorkWindow.StartHour, EndHour: p.WorkWindow.EndHour}
	}
	if p.BreakMinutes != nil {
		base.BreakMinutes = *p.BreakMinutes
	}
	if p.MinBlockMinutes != nil {
		base.MinBlockMinutes = p.MinBlockMinutes
	}
	if p.ContextSwitchBufferMinutes != nil {
		base.ContextSwitchBufferMinutes = p.ContextSwitchBufferMinutes
	}
	if p.TravelBufferMinutes != nil {
		base.TravelBufferMinutes = p.TravelBufferMinutes
	}
	if p.ResolveConflicts != nil {
		base.ResolveConflicts = domain.ConflictMode(*p.ResolveConflicts)
	}
	return base
}

func optionalTime(v *string, loc *time.Location) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := timewin.ParseInstant(*v, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
