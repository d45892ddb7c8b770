package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	weekdayNames = `monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun`
	monthNames   = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`
	numberWords  = `\d+|a|an|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve`

	datePattern = `\d{4}-\d{1,2}-\d{1,2}` +
		`|(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:` + monthNames + `)(?:,?\s+\d{4})?` +
		`|\d{1,2}/\d{1,2}(?:/\d{2,4})?` +
		`|(?:next\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)` +
		`|today|tomorrow` +
		`|end\s+of\s+(?:the\s+)?(?:week|month|year)`
)

func ci(expr string) *regexp.Regexp { return regexp.MustCompile(`(?i)` + expr) }

var (
	reLeadIn = ci(`^\s*(?:i\s+(?:really\s+)?(?:want|need)\s+to|i'd\s+like\s+to|i\s+would\s+like\s+to)\s+`)

	reDuration = ci(`\b(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)\b`)
	reHalfHour = ci(`\bhalf\s+(?:an\s+)?hour\b`)
	reAnHour   = ci(`\b(?:an|one)\s+hour\b`)

	reClock12 = ci(`\b(\d{1,2})(?::([0-5]\d))?\s*([ap])\.?m\b\.?`)
	reClock24 = ci(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	reAtHour  = ci(`\bat\s+(\d{1,2})\b`)
	reNoon    = ci(`\b(?:noon|midday)\b`)

	reMorning   = ci(`\bmornings?\b`)
	reAfternoon = ci(`\bafternoons?\b`)
	reEvening   = ci(`\bevenings?\b`)
	reNight     = ci(`\b(?:nights?|tonight)\b`)
	reWorkout   = ci(`\b(?:gym|workout|work\s+out|exercise|run|running|jog|jogging)\b`)

	reEveryOtherDay = ci(`\b(?:every\s+other\s+day|every\s+(?:2|two)\s+days|alternate\s+days)\b`)
	reBiweekly      = ci(`\b(?:bi-?weekly|fortnightly|every\s+other\s+week|every\s+(?:2|two)\s+weeks)\b`)
	reEveryNWeeks   = ci(`\bevery\s+(\d+|three|four|five|six)\s+weeks\b`)
	reNthWeekday    = ci(`\b(first|second|third|fourth|fifth|last|1st|2nd|3rd|4th|5th)\s+(` + weekdayNames + `)\b(?:\s+of\s+(?:the|each|every)\s+month\b)?`)
	reEveryOtherMon = ci(`\bevery\s+other\s+month\b`)
	reDaily         = ci(`\b(?:daily|nightly|every\s*day|each\s+day|every\s+(?:morning|afternoon|evening|night))\b`)
	reMonthly       = ci(`\b(?:monthly|every\s+month|each\s+month|once\s+a\s+month)\b`)
	reWeekly        = ci(`\b(?:weekly|every\s+week|each\s+week)\b`)
	reTimesPerWeek  = ci(`\b(\d+|once|twice|thrice|one|two|three|four|five|six|seven)\s*(?:x|times)?\s*(?:a|per|each)\s+week\b`)
	reWeekdaySet    = ci(`\b(?:every\s+)?(weekdays?|weekends?)\b`)
	reWeekday       = ci(`\b(` + weekdayNames + `)s?\b`)

	reCount       = ci(`\b(` + numberWords + `)\s+(?:times|sessions|occurrences|classes|lessons|workouts)\b`)
	reCountSuffix = ci(`^\s*(?:a|per|each)\s+(?:day|week|month)\b`)

	reHighPriority = ci(`\b(?:urgent|asap|important|critical|high[\s-]+priority|top\s+priority)\b`)
	reLowPriority  = ci(`\b(?:low[\s-]+priority|whenever|someday|if\s+possible)\b`)

	reUntil    = ci(`\b(?:until|through|thru|till|til|by)\s+(?:the\s+)?(` + datePattern + `)\b`)
	reForSpan  = ci(`\bfor\s+(?:the\s+next\s+|the\s+|a\s+)?(` + numberWords + `)?\s*(days?|weeks?|months?)\b`)
	reThisNext = ci(`\b(this|next)\s+(week|weekend|month)\b`)
	reQuarter  = ci(`\bq([1-4])\b`)
	reInSpan   = ci(`\bin\s+(` + numberWords + `)\s+(days?|weeks?)\b`)
	reOnDate   = ci(`\bon\s+(?:the\s+)?(` + datePattern + `)\b`)
	reNextDay  = ci(`\b(next\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`)
	reTodayish = ci(`\b(today|tonight|tomorrow)\b`)
	reBareDate = ci(`\b(\d{4}-\d{1,2}-\d{1,2}|(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?)\b`)

	reISODate      = ci(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	reMonthDay     = ci(`^(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?$`)
	reDayMonth     = ci(`^(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)(?:,?\s+(\d{4}))?$`)
	reSlashDate    = ci(`^(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?$`)
	reNextWeekday  = ci(`^(next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`)
	reEndOfPeriod  = ci(`^end\s+of\s+(?:the\s+)?(week|month|year)$`)
	reSpaces       = regexp.MustCompile(`\s+`)
)

var wordNumbers = map[string]int{
	"a": 1, "an": 1, "one": 1, "once": 1,
	"two": 2, "twice": 2,
	"three": 3, "thrice": 3,
	"four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8,
	"nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

// parseNumber reads a digit string or an English number word; ok is false
// for anything else.
func parseNumber(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	n, ok := wordNumbers[s]
	return n, ok
}

var weekdayByPrefix = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	wd, ok := weekdayByPrefix[s[:3]]
	return wd, ok
}

var monthByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func parseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthByPrefix[s[:3]]
	return m, ok
}

var ordinals = map[string]int{
	"first": 1, "1st": 1, "second": 2, "2nd": 2, "third": 3, "3rd": 3,
	"fourth": 4, "4th": 4, "fifth": 5, "5th": 5, "last": -1,
}
