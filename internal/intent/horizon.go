package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"

	"github.com/alexanderramin/timeblock/internal/timewin"
)

// DefaultHorizonDays is the span used when no date phrase is recognised.
const DefaultHorizonDays = 7

// HorizonKind records which rule produced a horizon.
type HorizonKind string

const (
	HorizonDefault  HorizonKind = "default"
	HorizonUntil    HorizonKind = "until"
	HorizonFor      HorizonKind = "for"
	HorizonPeriod   HorizonKind = "period"
	HorizonQuarter  HorizonKind = "quarter"
	HorizonIn       HorizonKind = "in"
	HorizonAbsolute HorizonKind = "absolute"
)

// Horizon is the inclusive [Start, End] local-midnight bound of an intent.
type Horizon struct {
	Start time.Time
	End   time.Time
	Kind  HorizonKind
	span  span
}

// resolveHorizon maps the first matching date phrase in text to a horizon.
// today must be a local midnight. For recurring requests "on <weekday>"
// names a cadence day rather than a date. allowFallback enables the general
// date parser for phrases the fixed rules do not cover.
func resolveHorizon(text string, today time.Time, parser *when.Parser, recurring, allowFallback bool) Horizon {
	h, ok := matchHorizon(text, today, parser, recurring, allowFallback)
	if !ok {
		return Horizon{Start: today, End: today.AddDate(0, 0, DefaultHorizonDays), Kind: HorizonDefault, span: noSpan}
	}
	if h.Start.Before(today) {
		h.Start = today
	}
	if h.End.Before(h.Start) {
		h.End = h.Start
	}
	return h
}

func matchHorizon(text string, today time.Time, parser *when.Parser, recurring, allowFallback bool) (Horizon, bool) {
	if m := reUntil.FindStringSubmatchIndex(text); m != nil {
		if d, ok := parseDate(text[m[2]:m[3]], today); ok {
			return Horizon{Start: today, End: d, Kind: HorizonUntil, span: spanOf(m)}, true
		}
	}
	if m := reForSpan.FindStringSubmatchIndex(text); m != nil {
		n := 1
		if m[2] >= 0 {
			if v, ok := parseNumber(text[m[2]:m[3]]); ok {
				n = v
			}
		}
		end := addUnits(today, n, text[m[4]:m[5]])
		return Horizon{Start: today, End: end, Kind: HorizonFor, span: spanOf(m)}, true
	}
	if m := reThisNext.FindStringSubmatchIndex(text); m != nil {
		start, end := period(today, strings.ToLower(text[m[2]:m[3]]), strings.ToLower(text[m[4]:m[5]]))
		return Horizon{Start: start, End: end, Kind: HorizonPeriod, span: spanOf(m)}, true
	}
	if m := reQuarter.FindStringSubmatchIndex(text); m != nil {
		q, _ := strconv.Atoi(text[m[2]:m[3]])
		start := time.Date(today.Year(), time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, today.Location())
		end := start.AddDate(0, 3, -1)
		// A quarter that is already over means next year's.
		if end.Before(today) {
			start = start.AddDate(1, 0, 0)
			end = start.AddDate(0, 3, -1)
		}
		return Horizon{Start: start, End: end, Kind: HorizonQuarter, span: spanOf(m)}, true
	}
	if m := reInSpan.FindStringSubmatchIndex(text); m != nil {
		if n, ok := parseNumber(text[m[2]:m[3]]); ok {
			start := addUnits(today, n, text[m[4]:m[5]])
			end := timewin.WeekStart(start, start.Location()).AddDate(0, 0, 6)
			return Horizon{Start: start, End: end, Kind: HorizonIn, span: spanOf(m)}, true
		}
	}
	for _, re := range []*regexp.Regexp{reOnDate, reNextDay, reTodayish, reBareDate} {
		if m := re.FindStringSubmatchIndex(text); m != nil {
			phrase := text[m[2]:m[3]]
			if recurring && reNextWeekday.MatchString(phrase) {
				continue
			}
			if d, ok := parseDate(phrase, today); ok {
				return Horizon{Start: d, End: d, Kind: HorizonAbsolute, span: spanOf(m)}, true
			}
		}
	}
	if allowFallback && parser != nil {
		r, err := parser.Parse(text, today)
		if err == nil && r != nil {
			d := timewin.StartOfDay(r.Time, today.Location())
			return Horizon{Start: d, End: d, Kind: HorizonAbsolute, span: span{r.Index, r.Index + len(r.Text)}}, true
		}
	}
	return Horizon{}, false
}

func addUnits(from time.Time, n int, unit string) time.Time {
	switch strings.TrimSuffix(strings.ToLower(unit), "s") {
	case "week":
		return from.AddDate(0, 0, 7*n)
	case "month":
		return from.AddDate(0, n, 0)
	default:
		return from.AddDate(0, 0, n)
	}
}

// period resolves "this|next week|weekend|month" against today.
func period(today time.Time, which, unit string) (time.Time, time.Time) {
	monday := timewin.WeekStart(today, today.Location())
	next := which == "next"
	switch unit {
	case "week":
		if next {
			return monday.AddDate(0, 0, 7), monday.AddDate(0, 0, 13)
		}
		return today, monday.AddDate(0, 0, 6)
	case "weekend":
		sat := monday.AddDate(0, 0, 5)
		if next {
			sat = sat.AddDate(0, 0, 7)
		}
		return sat, sat.AddDate(0, 0, 1)
	default:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		if next {
			first = first.AddDate(0, 1, 0)
			return first, first.AddDate(0, 1, -1)
		}
		return today, first.AddDate(0, 1, -1)
	}
}

// parseDate resolves one date expression matched by datePattern. Dates
// without a year roll into next year once they have passed.
func parseDate(s string, today time.Time) (time.Time, bool) {
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
	loc := today.Location()
	date := func(y int, m time.Month, d int) (time.Time, bool) {
		t := time.Date(y, m, d, 0, 0, 0, 0, loc)
		if t.Day() != d || t.Month() != m {
			return time.Time{}, false
		}
		return t, true
	}
	rollYear := func(yearText string, m time.Month, d int) (time.Time, bool) {
		if yearText != "" {
			y, _ := strconv.Atoi(yearText)
			if y < 100 {
				y += 2000
			}
			return date(y, m, d)
		}
		t, ok := date(today.Year(), m, d)
		if ok && t.Before(today) {
			return date(today.Year()+1, m, d)
		}
		return t, ok
	}

	switch lower := strings.ToLower(s); {
	case lower == "today" || lower == "tonight":
		return today, true
	case lower == "tomorrow":
		return today.AddDate(0, 0, 1), true
	}
	if m := reISODate.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return date(y, time.Month(mo), d)
	}
	if m := reMonthDay.FindStringSubmatch(s); m != nil {
		mo, _ := parseMonth(m[1])
		d, _ := strconv.Atoi(m[2])
		return rollYear(m[3], mo, d)
	}
	if m := reDayMonth.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := parseMonth(m[2])
		return rollYear(m[3], mo, d)
	}
	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		if mo < 1 || mo > 12 {
			return time.Time{}, false
		}
		return rollYear(m[3], time.Month(mo), d)
	}
	if m := reNextWeekday.FindStringSubmatch(s); m != nil {
		wd, _ := parseWeekday(m[2])
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		if m[1] != "" && ahead == 0 {
			ahead = 7
		}
		return today.AddDate(0, 0, ahead), true
	}
	if m := reEndOfPeriod.FindStringSubmatch(s); m != nil {
		switch strings.ToLower(m[1]) {
		case "week":
			return timewin.WeekStart(today, loc).AddDate(0, 0, 6), true
		case "month":
			return time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, loc), true
		default:
			return time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}
