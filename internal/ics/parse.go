// Package ics reads busy time from iCalendar feeds and writes drafts back
// out as iCalendar.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const (
	dateLayout      = "20060102"
	localLayout     = "20060102T150405"
	utcLayout       = "20060102T150405Z"
	propSeries      = "X-TIMEBLOCK-SERIES"
	propRecurrence  = "RECURRENCE-ID"
	statusCancelled = "CANCELLED"
)

// Event is a VEVENT reduced to what busy-time computation needs.
// Recurrences are kept raw; Expand turns them into concrete intervals.
type Event struct {
	UID          string
	Summary      string
	Start        time.Time
	End          time.Time
	AllDay       bool
	Free         bool
	Cancelled    bool
	SeriesID     string
	RawRRule     string
	ExDates      []time.Time
	RecurrenceID *time.Time
}

// Calendar is a parsed feed. Skipped holds one error per VEVENT that could
// not be read; the rest of the feed is still usable.
type Calendar struct {
	Events  []Event
	Skipped []error
}

// Parse reads an iCalendar stream. Floating and all-day times are placed in
// loc; zoned times keep their TZID.
func Parse(r io.Reader, loc *time.Location) (*Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	out := &Calendar{}
	for _, ve := range cal.Events() {
		ev, err := parseEvent(ve, loc)
		if err != nil {
			out.Skipped = append(out.Skipped, err)
			continue
		}
		out.Events = append(out.Events, ev)
	}
	return out, nil
}

func parseEvent(ve *ical.VEvent, loc *time.Location) (Event, error) {
	var ev Event
	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return ev, errors.New("vevent without UID")
	}
	ev.UID = uid.Value
	ev.Summary = propValue(ve, ical.ComponentPropertySummary)
	ev.SeriesID = propValue(ve, propSeries)
	ev.RawRRule = propValue(ve, ical.ComponentPropertyRrule)
	ev.Free = strings.EqualFold(propValue(ve, ical.ComponentPropertyTransp), "TRANSPARENT")
	ev.Cancelled = strings.EqualFold(propValue(ve, ical.ComponentPropertyStatus), statusCancelled)

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return ev, fmt.Errorf("vevent %s: missing DTSTART", ev.UID)
	}
	start, allDay, err := parseProp(dtStart, loc)
	if err != nil {
		return ev, fmt.Errorf("vevent %s: DTSTART: %w", ev.UID, err)
	}
	ev.Start, ev.AllDay = start, allDay

	switch {
	case ve.GetProperty(ical.ComponentPropertyDtEnd) != nil:
		end, _, err := parseProp(ve.GetProperty(ical.ComponentPropertyDtEnd), loc)
		if err != nil {
			return ev, fmt.Errorf("vevent %s: DTEND: %w", ev.UID, err)
		}
		ev.End = end
	case ev.AllDay:
		ev.End = ev.Start.AddDate(0, 0, 1)
	default:
		ev.End = ev.Start
	}
	if ev.End.Before(ev.Start) {
		return ev, fmt.Errorf("vevent %s: DTEND before DTSTART", ev.UID)
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, _, err := parseValue(strings.TrimSpace(part), tzid(p), loc); err == nil {
				ev.ExDates = append(ev.ExDates, t)
			}
		}
	}
	if rid := ve.GetProperty(propRecurrence); rid != nil {
		if t, _, err := parseProp(rid, loc); err == nil {
			ev.RecurrenceID = &t
		}
	}
	return ev, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

func tzid(p *ical.IANAProperty) string {
	if vs, ok := p.ICalParameters["TZID"]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func parseProp(p *ical.IANAProperty, loc *time.Location) (time.Time, bool, error) {
	return parseValue(p.Value, tzid(p), loc)
}

// parseValue handles the three iCalendar forms: UTC date-time, local
// date-time (in TZID or loc) and a bare date, which marks an all-day value.
func parseValue(v, zone string, loc *time.Location) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false, errors.New("empty time value")
	}
	if zone != "" {
		if z, err := time.LoadLocation(zone); err == nil {
			loc = z
		}
	}
	switch {
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse(utcLayout, v)
		return t, false, err
	case strings.Contains(v, "T"):
		t, err := time.ParseInLocation(localLayout, v, loc)
		return t, false, err
	default:
		t, err := time.ParseInLocation(dateLayout, v, loc)
		return t, true, err
	}
}
