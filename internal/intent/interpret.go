// Package intent interprets a free-text scheduling request into a
// domain.UnifiedScheduleIntent, resolving its date horizon along the way.
// Underspecified text degrades to defaults; only an unusable timezone or an
// empty request fails.
package intent

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

// Interpreter turns request text into schedule intents. It is safe for
// concurrent use once constructed.
type Interpreter struct {
	parser *when.Parser
}

// New builds an Interpreter with the English date rules.
func New() *Interpreter {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Interpreter{parser: w}
}

// Interpret parses text into a validated intent. timezone is the caller's
// default IANA zone; now anchors relative phrases like "tomorrow".
func (i *Interpreter) Interpret(text, timezone string, now time.Time) (domain.UnifiedScheduleIntent, error) {
	loc, err := domain.LoadLocation(timezone)
	if err != nil {
		return domain.UnifiedScheduleIntent{}, err
	}
	today := timewin.StartOfDay(now, loc)

	body := strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
	body = reLeadIn.ReplaceAllString(body, "")

	s := &scan{text: body}
	u := domain.UnifiedScheduleIntent{
		DurationMinutes: s.duration(),
		Timezone:        loc.String(),
		Priority:        s.priority(),
	}
	u.SeedTime = s.clock()
	u.Window = s.window(u.SeedTime != nil)

	// The nth-weekday phrase and the horizon phrase both contain weekday
	// names that must not count as weekly days, so they are matched first.
	nth := s.nthWeekday()
	cadenceHint := s.cadenceHint()
	recurring := cadenceHint != "" || nth != nil
	plainOnce := !recurring && !reWeekday.MatchString(body)
	h := resolveHorizon(body, today, i.parser, recurring, plainOnce)
	s.mark(h.span)

	u.Cadence = s.cadence(nth, cadenceHint, h.Start.Weekday())
	u.Count = s.count()
	u.StartDate = h.Start
	end := h.End
	u.EndDate = &end
	u.Goal = s.goal()

	if err := u.Validate(); err != nil {
		return domain.UnifiedScheduleIntent{}, err
	}
	return u, nil
}

type span struct{ start, end int }

var noSpan = span{-1, -1}

func spanOf(m []int) span { return span{m[0], m[1]} }

// scan tracks which byte ranges of the request were consumed as scheduling
// phrases, so the goal can be cut from what is left.
type scan struct {
	text  string
	spans []span
}

func (s *scan) mark(sp span) {
	if sp.start >= 0 && sp.end > sp.start {
		s.spans = append(s.spans, sp)
	}
}

func (s *scan) consumed(at int) bool {
	for _, sp := range s.spans {
		if at >= sp.start && at < sp.end {
			return true
		}
	}
	return false
}

func (s *scan) duration() int {
	minutes := domain.DefaultDurationMinutes
	if m := reDuration.FindStringSubmatchIndex(s.text); m != nil {
		v, _ := strconv.ParseFloat(s.text[m[2]:m[3]], 64)
		if strings.HasPrefix(strings.ToLower(s.text[m[4]:m[5]]), "h") {
			v *= 60
		}
		minutes = int(math.Round(v))
		s.mark(spanOf(m))
	} else if m := reHalfHour.FindStringIndex(s.text); m != nil {
		minutes = 30
		s.mark(spanOf(m))
	} else if m := reAnHour.FindStringIndex(s.text); m != nil {
		minutes = 60
		s.mark(spanOf(m))
	}
	if minutes < domain.MinDurationMinutes {
		minutes = domain.MinDurationMinutes
	}
	return minutes
}

func (s *scan) clock() *domain.ClockTime {
	if m := reClock12.FindStringSubmatchIndex(s.text); m != nil {
		h, _ := strconv.Atoi(s.text[m[2]:m[3]])
		mi := 0
		if m[4] >= 0 {
			mi, _ = strconv.Atoi(s.text[m[4]:m[5]])
		}
		if h >= 1 && h <= 12 {
			h %= 12
			if strings.EqualFold(s.text[m[6]:m[7]], "p") {
				h += 12
			}
			s.mark(spanOf(m))
			return &domain.ClockTime{Hour: h, Minute: mi}
		}
	}
	if m := reClock24.FindStringSubmatchIndex(s.text); m != nil {
		h, _ := strconv.Atoi(s.text[m[2]:m[3]])
		mi, _ := strconv.Atoi(s.text[m[4]:m[5]])
		s.mark(spanOf(m))
		return &domain.ClockTime{Hour: h, Minute: mi}
	}
	if m := reNoon.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return &domain.ClockTime{Hour: 12}
	}
	if m := reAtHour.FindStringSubmatchIndex(s.text); m != nil {
		h, _ := strconv.Atoi(s.text[m[2]:m[3]])
		if h >= 1 && h <= 23 {
			// A bare small hour almost always means the afternoon.
			if h < 8 {
				h += 12
			}
			s.mark(spanOf(m))
			return &domain.ClockTime{Hour: h}
		}
	}
	return nil
}

func (s *scan) window(hasSeed bool) domain.Window {
	found := domain.WindowNone
	for _, c := range []struct {
		w  domain.Window
		re *regexp.Regexp
	}{
		{domain.WindowMorning, reMorning},
		{domain.WindowAfternoon, reAfternoon},
		{domain.WindowEvening, reEvening},
		{domain.WindowNight, reNight},
	} {
		if m := c.re.FindStringIndex(s.text); m != nil {
			s.mark(spanOf(m))
			if found == domain.WindowNone {
				found = c.w
			}
		}
	}
	if hasSeed {
		return domain.WindowNone
	}
	if found == domain.WindowNone && reWorkout.MatchString(s.text) {
		return domain.WindowEvening
	}
	return found
}

func (s *scan) priority() int {
	if m := reHighPriority.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return 3
	}
	if m := reLowPriority.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return 1
	}
	return domain.DefaultPriority
}

func (s *scan) nthWeekday() *domain.NthWeekday {
	m := reNthWeekday.FindStringSubmatchIndex(s.text)
	if m == nil {
		return nil
	}
	n := ordinals[strings.ToLower(s.text[m[2]:m[3]])]
	wd, ok := parseWeekday(s.text[m[4]:m[5]])
	if !ok {
		return nil
	}
	s.mark(spanOf(m))
	return &domain.NthWeekday{N: n, Weekday: wd}
}

// cadenceHint names the strongest cadence keyword present, or "" when the
// text carries none. Weekday names are not considered here.
func (s *scan) cadenceHint() domain.CadenceKind {
	switch {
	case reEveryOtherDay.MatchString(s.text):
		return domain.CadenceEveryOtherDay
	case reBiweekly.MatchString(s.text):
		return domain.CadenceBiweekly
	case reDaily.MatchString(s.text):
		return domain.CadenceDaily
	case reMonthly.MatchString(s.text):
		return domain.CadenceMonthly
	case reWeekly.MatchString(s.text), reTimesPerWeek.MatchString(s.text), reWeekdaySet.MatchString(s.text):
		return domain.CadenceWeekly
	case reEveryNWeeks.MatchString(s.text):
		return domain.CadenceCustom
	}
	return ""
}

// cadence applies the precedence every-other-day, biweekly, nth weekday,
// daily, monthly, weekly, every N weeks, once. A daily cadence ignores any
// weekday qualifier.
func (s *scan) cadence(nth *domain.NthWeekday, hint domain.CadenceKind, startDay time.Weekday) domain.Cadence {
	days := s.weekdays()

	if m := reEveryOtherDay.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return domain.EveryOtherDay()
	}
	if m := reBiweekly.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return domain.Biweekly(days...)
	}
	if nth != nil {
		interval := 1
		if m := reEveryOtherMon.FindStringIndex(s.text); m != nil {
			s.mark(spanOf(m))
			interval = 2
		}
		return domain.NthWeekdayOfMonth(nth.N, nth.Weekday, interval)
	}
	if m := reDaily.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return domain.Daily()
	}
	if m := reMonthly.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return domain.Monthly()
	}
	if m := reEveryNWeeks.FindStringSubmatchIndex(s.text); m != nil {
		if n, ok := parseNumber(s.text[m[2]:m[3]]); ok && n > 2 {
			s.mark(spanOf(m))
			if len(days) == 0 {
				days = []time.Weekday{startDay}
			}
			return domain.EveryNWeeks(n, days...)
		}
	}
	if m := reTimesPerWeek.FindStringSubmatchIndex(s.text); m != nil {
		s.mark(spanOf(m))
		if len(days) == 0 {
			n, _ := parseNumber(s.text[m[2]:m[3]])
			days = spreadDays(n)
		}
		return domain.Weekly(days...)
	}
	if m := reWeekly.FindStringIndex(s.text); m != nil {
		s.mark(spanOf(m))
		return domain.Weekly(days...)
	}
	if len(days) > 0 || hint == domain.CadenceWeekly {
		return domain.Weekly(days...)
	}
	return domain.Once()
}

// weekdays collects weekday names and weekday/weekend sets that were not
// already consumed by the horizon or an nth-weekday phrase.
func (s *scan) weekdays() []time.Weekday {
	var days []time.Weekday
	for _, m := range reWeekdaySet.FindAllStringSubmatchIndex(s.text, -1) {
		if s.consumed(m[0]) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(s.text[m[2]:m[3]]), "weekday") {
			days = append(days, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
		} else {
			days = append(days, time.Saturday, time.Sunday)
		}
		s.mark(spanOf(m))
	}
	for _, m := range reWeekday.FindAllStringSubmatchIndex(s.text, -1) {
		if s.consumed(m[0]) {
			continue
		}
		if wd, ok := parseWeekday(s.text[m[2]:m[3]]); ok {
			days = append(days, wd)
			s.mark(spanOf(m))
		}
	}
	return days
}

// spreadDays picks evenly spaced weekdays for "N times a week".
func spreadDays(n int) []time.Weekday {
	switch {
	case n <= 1:
		return nil
	case n == 2:
		return []time.Weekday{time.Tuesday, time.Thursday}
	case n == 3:
		return []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	case n == 4:
		return []time.Weekday{time.Monday, time.Tuesday, time.Thursday, time.Friday}
	case n == 5:
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	case n == 6:
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	default:
		return []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	}
}

// count reads "N times|sessions" unless it is a rate ("3 times a week").
func (s *scan) count() *int {
	for _, m := range reCount.FindAllStringSubmatchIndex(s.text, -1) {
		if reCountSuffix.MatchString(s.text[m[1]:]) {
			continue
		}
		n, ok := parseNumber(s.text[m[2]:m[3]])
		if !ok || n < 1 {
			continue
		}
		s.mark(spanOf(m))
		return &n
	}
	return nil
}

var connectors = map[string]bool{
	"for": true, "at": true, "on": true, "in": true, "the": true, "every": true,
	"each": true, "by": true, "until": true, "from": true, "starting": true,
	"and": true, "a": true, "an": true, "of": true, "to": true, "-": true,
}

// goal is the request text with every scheduling phrase removed. Pieces
// left between phrases that are only connector words are dropped.
func (s *scan) goal() string {
	sort.Slice(s.spans, func(i, j int) bool { return s.spans[i].start < s.spans[j].start })

	var parts []string
	cursor := 0
	for _, sp := range s.spans {
		if sp.start > cursor {
			if p := trimConnectors(s.text[cursor:sp.start]); p != "" {
				parts = append(parts, p)
			}
		}
		if sp.end > cursor {
			cursor = sp.end
		}
	}
	if p := trimConnectors(s.text[cursor:]); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

func trimConnectors(s string) string {
	words := strings.Fields(strings.Trim(s, " ,.;:!?"))
	for len(words) > 0 && connectors[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	for len(words) > 0 && connectors[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Trim(strings.Join(words, " "), " ,.;:!?")
}
