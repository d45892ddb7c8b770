package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timeblock/internal/domain"
)

const tz = "America/New_York"

var (
	nyc, _ = time.LoadLocation(tz)
	// Monday 2025-12-01 10:00 local.
	testNow = time.Date(2025, 12, 1, 10, 0, 0, 0, nyc)
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, nyc)
}

func interpret(t *testing.T, text string) domain.UnifiedScheduleIntent {
	t.Helper()
	u, err := New().Interpret(text, tz, testNow)
	require.NoError(t, err, "text=%q", text)
	return u
}

func TestInterpret_TwiceAWeekEveningsUntilDate(t *testing.T) {
	u := interpret(t, "study calc twice a week for 90 min until Dec 15 in the evenings")

	assert.Equal(t, "study calc", u.Goal)
	assert.Equal(t, domain.CadenceWeekly, u.Cadence.Kind)
	assert.Equal(t, []time.Weekday{time.Tuesday, time.Thursday}, u.Cadence.DaysOfWeek)
	assert.Equal(t, domain.WindowEvening, u.Window)
	assert.Equal(t, 90, u.DurationMinutes)
	assert.Equal(t, date(2025, 12, 1), u.StartDate)
	require.NotNil(t, u.EndDate)
	assert.Equal(t, date(2025, 12, 15), *u.EndDate)
	assert.Nil(t, u.SeedTime)
	assert.Nil(t, u.Count)
	assert.Equal(t, domain.DefaultPriority, u.Priority)
	assert.Equal(t, tz, u.Timezone)
}

func TestInterpret_TomorrowMorning(t *testing.T) {
	u := interpret(t, "deep work tomorrow morning 60 min")

	assert.Equal(t, "deep work", u.Goal)
	assert.Equal(t, domain.CadenceOnce, u.Cadence.Kind)
	assert.Equal(t, domain.WindowMorning, u.Window)
	assert.Equal(t, 60, u.DurationMinutes)
	assert.Equal(t, date(2025, 12, 2), u.StartDate)
	assert.Equal(t, date(2025, 12, 2), *u.EndDate)
}

func TestInterpret_Defaults(t *testing.T) {
	u := interpret(t, "read a book")

	assert.Equal(t, "read a book", u.Goal)
	assert.Equal(t, domain.CadenceOnce, u.Cadence.Kind)
	assert.Equal(t, domain.WindowNone, u.Window)
	assert.Equal(t, domain.DefaultDurationMinutes, u.DurationMinutes)
	assert.Equal(t, date(2025, 12, 1), u.StartDate)
	assert.Equal(t, date(2025, 12, 8), *u.EndDate)
}

func TestInterpret_StripsLeadIn(t *testing.T) {
	u := interpret(t, "I want to learn guitar every other day for 2 weeks")
	assert.Equal(t, "learn guitar", u.Goal)
	assert.Equal(t, domain.CadenceEveryOtherDay, u.Cadence.Kind)
	assert.Equal(t, date(2025, 12, 15), *u.EndDate)
}

func TestInterpret_Duration(t *testing.T) {
	cases := []struct {
		text    string
		minutes int
	}{
		{"meditate for 10 min daily", 25},
		{"write 1.5 hours on weekdays", 90},
		{"review notes 2h", 120},
		{"tidy up for half an hour", 30},
		{"stretch 45 minutes", 45},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.minutes, interpret(t, tc.text).DurationMinutes, "text=%q", tc.text)
	}
}

func TestInterpret_Cadence(t *testing.T) {
	cases := []struct {
		text string
		want domain.Cadence
	}{
		{"meditate daily", domain.Daily()},
		{"journal every day", domain.Daily()},
		{"write 1.5 hours on weekdays", domain.Weekly(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)},
		{"hike on weekends", domain.Weekly(time.Saturday, time.Sunday)},
		{"gym Monday Wednesday Friday", domain.Weekly(time.Monday, time.Wednesday, time.Friday)},
		{"team sync biweekly on Wednesdays", domain.Biweekly(time.Wednesday)},
		{"pay bills monthly", domain.Monthly()},
		{"book club first Monday of the month", domain.NthWeekdayOfMonth(1, time.Monday, 1)},
		{"review budget last friday every other month", domain.NthWeekdayOfMonth(-1, time.Friday, 2)},
		{"swim 3 times a week", domain.Weekly(time.Monday, time.Wednesday, time.Friday)},
		{"retro every 3 weeks on Thursday", domain.EveryNWeeks(3, time.Thursday)},
		{"call grandma weekly", domain.Weekly()},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, interpret(t, tc.text).Cadence, "text=%q", tc.text)
	}
}

// A weekday qualifier on a daily cadence is not applied to expansion.
func TestInterpret_DailyIgnoresWeekdayQualifier(t *testing.T) {
	u := interpret(t, "standup daily on weekdays")
	assert.Equal(t, domain.Daily(), u.Cadence)
}

func TestInterpret_ClockAndWindow(t *testing.T) {
	u := interpret(t, "call mom at 6pm tomorrow")
	require.NotNil(t, u.SeedTime)
	assert.Equal(t, domain.ClockTime{Hour: 18}, *u.SeedTime)
	assert.Equal(t, domain.WindowNone, u.Window)
	assert.Equal(t, "call mom", u.Goal)

	u = interpret(t, "standup 09:30 every day")
	require.NotNil(t, u.SeedTime)
	assert.Equal(t, domain.ClockTime{Hour: 9, Minute: 30}, *u.SeedTime)

	u = interpret(t, "lunch walk at noon")
	require.NotNil(t, u.SeedTime)
	assert.Equal(t, 12, u.SeedTime.Hour)

	u = interpret(t, "yoga at 7:15 am")
	require.NotNil(t, u.SeedTime)
	assert.Equal(t, domain.ClockTime{Hour: 7, Minute: 15}, *u.SeedTime)
}

func TestInterpret_WorkoutFallsBackToEvening(t *testing.T) {
	assert.Equal(t, domain.WindowEvening, interpret(t, "go for a run").Window)
	assert.Equal(t, domain.WindowMorning, interpret(t, "run in the morning").Window)
	assert.Equal(t, domain.WindowNone, interpret(t, "gym at 7am").Window)
	assert.Equal(t, domain.WindowNone, interpret(t, "pay bills monthly").Window)
}

func TestInterpret_CountAndPriority(t *testing.T) {
	u := interpret(t, "piano lesson 5 sessions every week")
	require.NotNil(t, u.Count)
	assert.Equal(t, 5, *u.Count)
	assert.Equal(t, "piano lesson", u.Goal)

	assert.Nil(t, interpret(t, "swim 3 times a week").Count)

	u = interpret(t, "urgent: finish report tomorrow")
	assert.Equal(t, 3, u.Priority)
	assert.Equal(t, "finish report", u.Goal)

	assert.Equal(t, 1, interpret(t, "sort photos low priority").Priority)
}

func TestInterpret_Horizon(t *testing.T) {
	cases := []struct {
		text       string
		start, end time.Time
	}{
		{"study next week", date(2025, 12, 8), date(2025, 12, 14)},
		{"study this week", date(2025, 12, 1), date(2025, 12, 7)},
		{"study this weekend", date(2025, 12, 6), date(2025, 12, 7)},
		{"study next weekend", date(2025, 12, 13), date(2025, 12, 14)},
		{"study this month", date(2025, 12, 1), date(2025, 12, 31)},
		{"study next month", date(2026, 1, 1), date(2026, 1, 31)},
		{"study in Q4", date(2025, 12, 1), date(2025, 12, 31)},
		{"study in 2 weeks", date(2025, 12, 15), date(2025, 12, 21)},
		{"study for 3 days", date(2025, 12, 1), date(2025, 12, 4)},
		{"study for a month", date(2025, 12, 1), date(2026, 1, 1)},
		{"study until Friday", date(2025, 12, 1), date(2025, 12, 5)},
		{"study by Jan 10", date(2025, 12, 1), date(2026, 1, 10)},
		{"study until Nov 3", date(2025, 12, 1), date(2026, 11, 3)},
		{"study through 12/20", date(2025, 12, 1), date(2025, 12, 20)},
		{"study until end of month", date(2025, 12, 1), date(2025, 12, 31)},
		{"dentist on 2025-12-24", date(2025, 12, 24), date(2025, 12, 24)},
		{"dentist on Dec 24", date(2025, 12, 24), date(2025, 12, 24)},
		{"dentist on the 24th of December", date(2025, 12, 24), date(2025, 12, 24)},
		{"dentist today", date(2025, 12, 1), date(2025, 12, 1)},
		{"call mom next friday", date(2025, 12, 5), date(2025, 12, 5)},
		{"dentist next monday at 3pm", date(2025, 12, 8), date(2025, 12, 8)},
		{"review plan next Wednesday", date(2025, 12, 3), date(2025, 12, 3)},
	}
	for _, tc := range cases {
		u := interpret(t, tc.text)
		assert.Equal(t, tc.start, u.StartDate, "start for %q", tc.text)
		require.NotNil(t, u.EndDate)
		assert.Equal(t, tc.end, *u.EndDate, "end for %q", tc.text)
	}
}

func TestInterpret_HorizonWeekdayIsNotCadence(t *testing.T) {
	u := interpret(t, "finish slides until Friday")
	assert.Equal(t, domain.CadenceOnce, u.Cadence.Kind)
	assert.Equal(t, "finish slides", u.Goal)

	u = interpret(t, "dentist on Monday")
	assert.Equal(t, domain.CadenceOnce, u.Cadence.Kind)
	assert.Equal(t, date(2025, 12, 1), u.StartDate)
}

func TestInterpret_StartNeverBeforeToday(t *testing.T) {
	u := interpret(t, "close the books in Q4")
	assert.Equal(t, date(2025, 12, 1), u.StartDate)
	assert.Equal(t, date(2025, 12, 31), *u.EndDate)
}

func TestInterpret_PastQuarterRollsToNextYear(t *testing.T) {
	u := interpret(t, "review q3 report")
	assert.Equal(t, date(2026, 7, 1), u.StartDate)
	assert.Equal(t, date(2026, 9, 30), *u.EndDate)
	assert.Equal(t, "review report", u.Goal)
}

func TestInterpret_NextWeekdayIsASingleDay(t *testing.T) {
	u := interpret(t, "call mom next friday")
	assert.Equal(t, domain.CadenceOnce, u.Cadence.Kind)
	assert.Equal(t, "call mom", u.Goal)

	u = interpret(t, "dentist next tuesday at 3pm")
	assert.Equal(t, domain.CadenceOnce, u.Cadence.Kind)
	assert.Equal(t, "dentist", u.Goal)
	assert.Equal(t, date(2025, 12, 2), u.StartDate)
	assert.Equal(t, date(2025, 12, 2), *u.EndDate)
	require.NotNil(t, u.SeedTime)
	assert.Equal(t, domain.ClockTime{Hour: 15}, *u.SeedTime)

	// "on next <weekday>" and bare "next <weekday>" agree.
	on := interpret(t, "call mom on next friday")
	bare := interpret(t, "call mom next friday")
	assert.Equal(t, on.Goal, bare.Goal)
	assert.Equal(t, on.Cadence, bare.Cadence)
	assert.Equal(t, on.StartDate, bare.StartDate)
}

func TestInterpret_GoalKeepsTextAfterPhrases(t *testing.T) {
	cases := []struct {
		text string
		goal string
	}{
		{"call mom on Friday about taxes", "call mom about taxes"},
		{"book club first Monday of the month", "book club"},
		{"deep work tomorrow morning 60 min", "deep work"},
		{"urgent: finish report tomorrow", "finish report"},
		{"tomorrow morning write the newsletter", "write the newsletter"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.goal, interpret(t, tc.text).Goal, "text=%q", tc.text)
	}
}

func TestInterpret_Errors(t *testing.T) {
	_, err := New().Interpret("study", "Not/AZone", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	_, err = New().Interpret("study", "", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	_, err = New().Interpret("   ", tz, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidIntent)
}

func TestInterpret_LocalDayFromUTCNow(t *testing.T) {
	// 03:00 UTC on Dec 2 is still Dec 1 in New York.
	now := time.Date(2025, 12, 2, 3, 0, 0, 0, time.UTC)
	u, err := New().Interpret("read tomorrow", tz, now)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 12, 2), u.StartDate)
}
