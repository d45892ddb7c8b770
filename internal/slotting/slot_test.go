package slotting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/recurrence"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

var (
	tz      = "America/New_York"
	loc, _  = time.LoadLocation(tz)
	testNow = time.Date(2025, 12, 1, 8, 0, 0, 0, loc)
)

func localAt(d, h, m int) time.Time {
	return time.Date(2025, 12, d, h, m, 0, 0, loc)
}

func midnight(d int) time.Time { return localAt(d, 0, 0) }

func intent(goal string, c domain.Cadence, w domain.Window, dur int, startDay, endDay int) domain.UnifiedScheduleIntent {
	end := midnight(endDay)
	return domain.UnifiedScheduleIntent{
		Goal:            goal,
		DurationMinutes: dur,
		Cadence:         c,
		Window:          w,
		StartDate:       midnight(startDay),
		EndDate:         &end,
		Timezone:        tz,
		Priority:        domain.DefaultPriority,
	}
}

func TestSeed(t *testing.T) {
	d := midnight(2)
	cases := []struct {
		window domain.Window
		hour   int
	}{
		{domain.WindowMorning, 9},
		{domain.WindowAfternoon, 13},
		{domain.WindowEvening, 18},
		{domain.WindowNight, 20},
		{domain.WindowNone, 18},
	}
	for _, tc := range cases {
		assert.Equal(t, localAt(2, tc.hour, 0), Seed(d, tc.window, nil, loc), "window=%s", tc.window)
	}
	assert.Equal(t, localAt(2, 7, 15), Seed(d, domain.WindowEvening, &domain.ClockTime{Hour: 7, Minute: 15}, loc))
}

func TestProber_RejectsBusySeedAndAdvances(t *testing.T) {
	busy := []domain.BusyInterval{{Start: localAt(2, 9, 0), End: localAt(2, 10, 0)}}
	p, err := NewProber(domain.OverlapPolicy{Mode: domain.OverlapNone}, "deep work", time.Time{})
	require.NoError(t, err)

	start, ok := p.Find(localAt(2, 9, 0), time.Hour, busy)
	require.True(t, ok)
	assert.Equal(t, localAt(2, 10, 0), start, "09:00 and 09:30 overlap the busy hour")
}

func TestProber_Exhausted(t *testing.T) {
	busy := []domain.BusyInterval{{Start: localAt(2, 0, 0), End: localAt(3, 12, 0)}}
	p, err := NewProber(domain.OverlapPolicy{}, "deep work", time.Time{})
	require.NoError(t, err)
	_, ok := p.Find(localAt(2, 9, 0), time.Hour, busy)
	assert.False(t, ok)
}

func TestProber_StackableOverlap(t *testing.T) {
	busy := []domain.BusyInterval{
		{Start: localAt(2, 18, 0), End: localAt(2, 18, 10)},
		{Start: localAt(2, 18, 50), End: localAt(2, 19, 30)},
	}
	policy := domain.OverlapPolicy{Mode: domain.OverlapSoft, MaxOverlapMinutes: 20, StackableGoalPattern: "walk|podcast"}

	p, err := NewProber(policy, "Evening walk", time.Time{})
	require.NoError(t, err)
	start, ok := p.Find(localAt(2, 18, 0), time.Hour, busy)
	require.True(t, ok)
	assert.Equal(t, localAt(2, 18, 0), start, "10+10 overlap minutes fit the 20 minute allowance")

	p, err = NewProber(policy, "write report", time.Time{})
	require.NoError(t, err)
	start, ok = p.Find(localAt(2, 18, 0), time.Hour, busy)
	require.True(t, ok)
	assert.Equal(t, localAt(2, 19, 30), start, "non-stackable goals need a clean slot")

	policy.MaxOverlapMinutes = 15
	p, err = NewProber(policy, "Evening walk", time.Time{})
	require.NoError(t, err)
	start, ok = p.Find(localAt(2, 18, 0), time.Hour, busy)
	require.True(t, ok)
	assert.NotEqual(t, localAt(2, 18, 0), start, "20 overlap minutes exceed 15")
}

func TestProber_NotBeforeNow(t *testing.T) {
	p, err := NewProber(domain.OverlapPolicy{}, "read", localAt(2, 9, 10))
	require.NoError(t, err)
	start, ok := p.Find(localAt(2, 9, 0), 30*time.Minute, nil)
	require.True(t, ok)
	assert.Equal(t, localAt(2, 9, 30), start)
}

func TestSlot_WeeklyEveningDrafts(t *testing.T) {
	u := intent("study calc", domain.Weekly(time.Tuesday, time.Thursday), domain.WindowEvening, 90, 1, 15)
	occ, err := recurrence.Expand(u, 0)
	require.NoError(t, err)

	res, err := Slot(u, occ, nil, Options{Now: testNow, DailyCap: 2})
	require.NoError(t, err)
	require.Len(t, res.Drafts, 4)
	for _, d := range res.Drafts {
		assert.Equal(t, 90*time.Minute, d.EndsAt.Sub(d.StartsAt))
		assert.Equal(t, 18, d.StartsAt.In(loc).Hour())
		assert.Equal(t, BaselineConfidence, d.Confidence)
		assert.Equal(t, `Proposed 90 min block for "study calc"`, d.Rationale)
		assert.Equal(t, res.Drafts[0].SeriesID, d.SeriesID)
		assert.NotEmpty(t, d.ID)
	}
	assert.Empty(t, res.Dropped)
}

func TestSlot_DailyCapDropsSameDayOccurrences(t *testing.T) {
	u := intent("stretch", domain.Once(), domain.WindowMorning, 30, 2, 2)
	occ := []time.Time{midnight(2), midnight(2), midnight(2)}

	res, err := Slot(u, occ, nil, Options{Now: testNow, DailyCap: 2})
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, DropDailyCap, res.Dropped[0].Reason)

	assert.Equal(t, localAt(2, 9, 0), res.Drafts[0].StartsAt)
	assert.Equal(t, localAt(2, 9, 30), res.Drafts[1].StartsAt, "second draft must not collide with the first")
}

func TestSlot_UnlimitedCap(t *testing.T) {
	u := intent("stretch", domain.Once(), domain.WindowMorning, 30, 2, 2)
	occ := []time.Time{midnight(2), midnight(2), midnight(2)}
	res, err := Slot(u, occ, nil, Options{Now: testNow})
	require.NoError(t, err)
	assert.Len(t, res.Drafts, 3)
}

func TestSlot_ExhaustedOccurrenceIsDropped(t *testing.T) {
	u := intent("focus", domain.Daily(), domain.WindowMorning, 60, 2, 3)
	busy := []domain.BusyInterval{{Start: localAt(2, 0, 0), End: localAt(2, 23, 59)}}
	res, err := Slot(u, []time.Time{midnight(2), midnight(3)}, busy, Options{Now: testNow, DailyCap: 2})
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, localAt(3, 9, 0), res.Drafts[0].StartsAt)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, DropExhausted, res.Dropped[0].Reason)
}

func TestSlot_PastOccurrencesAreExhausted(t *testing.T) {
	u := intent("read", domain.Daily(), domain.WindowMorning, 30, 1, 2)
	now := localAt(2, 20, 0)
	res, err := Slot(u, []time.Time{midnight(1), midnight(2)}, nil, Options{Now: now})
	require.NoError(t, err)
	assert.Empty(t, res.Drafts)
	require.Len(t, res.Dropped, 2)
	for _, d := range res.Dropped {
		assert.Equal(t, DropExhausted, d.Reason, "every probe starts before now")
	}
}

func TestClamp(t *testing.T) {
	u := intent("read", domain.Daily(), domain.WindowMorning, 30, 2, 3)
	drafts := []domain.EventDraft{
		{ID: "before", StartsAt: localAt(1, 23, 0)},
		{ID: "past", StartsAt: localAt(2, 9, 0)},
		{ID: "ok", StartsAt: localAt(3, 23, 30)},
		{ID: "after", StartsAt: localAt(4, 0, 0)},
	}
	kept, dropped := Clamp(drafts, u, localAt(2, 12, 0), loc)
	require.Len(t, kept, 1)
	assert.Equal(t, "ok", kept[0].ID)
	require.Len(t, dropped, 3)
	assert.Equal(t, DropOutsideHorizon, dropped[0].Reason)
	assert.Equal(t, DropInPast, dropped[1].Reason)
	assert.Equal(t, DropOutsideHorizon, dropped[2].Reason)
}

func TestSeriesID_Deterministic(t *testing.T) {
	a := intent("Study Calc", domain.Weekly(time.Tuesday), domain.WindowEvening, 90, 1, 15)
	b := intent("study calc ", domain.Weekly(time.Friday), domain.WindowMorning, 45, 1, 15)
	assert.Equal(t, SeriesID(a, loc), SeriesID(b, loc), "days, window and duration are not series-defining")

	c := intent("study calc", domain.Daily(), domain.WindowEvening, 90, 1, 15)
	assert.NotEqual(t, SeriesID(a, loc), SeriesID(c, loc))

	d := intent("study calc", domain.Weekly(time.Tuesday), domain.WindowEvening, 90, 1, 16)
	assert.NotEqual(t, SeriesID(a, loc), SeriesID(d, loc))

	open := a
	open.EndDate = nil
	assert.NotEqual(t, SeriesID(a, loc), SeriesID(open, loc))
}

func TestSlot_RepeatCallsAreIdentical(t *testing.T) {
	u := intent("piano", domain.EveryOtherDay(), domain.WindowAfternoon, 45, 1, 10)
	occ, err := recurrence.Expand(u, 0)
	require.NoError(t, err)
	first, err := Slot(u, occ, nil, Options{Now: testNow, DailyCap: 1})
	require.NoError(t, err)
	second, err := Slot(u, occ, nil, Options{Now: testNow, DailyCap: 1})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSlot_RejectsInvalidPolicy(t *testing.T) {
	u := intent("walk", domain.Once(), domain.WindowMorning, 30, 2, 2)
	_, err := Slot(u, []time.Time{midnight(2)}, nil, Options{Policy: domain.OverlapPolicy{Mode: "loose"}})
	require.Error(t, err)
}

func TestSlot_DoesNotMutateBusy(t *testing.T) {
	u := intent("walk", domain.Once(), domain.WindowMorning, 30, 2, 2)
	busy := make([]domain.BusyInterval, 1, 4)
	busy[0] = domain.BusyInterval{Start: localAt(2, 12, 0), End: localAt(2, 13, 0)}
	_, err := Slot(u, []time.Time{midnight(2)}, busy, Options{Now: testNow})
	require.NoError(t, err)
	assert.Len(t, busy, 1)
	assert.Equal(t, domain.BusyInterval{}, busy[:2][1], "backing array untouched")
}

// Randomised check of the draft invariants: exact duration, not before now,
// cap respected, and no overlap with busy time when overlap is disabled.
func TestSlot_PropertyInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	windows := []domain.Window{domain.WindowMorning, domain.WindowAfternoon, domain.WindowEvening, domain.WindowNight, domain.WindowNone}
	cadences := []domain.Cadence{domain.Daily(), domain.EveryOtherDay(), domain.Weekly(time.Monday, time.Wednesday, time.Friday)}

	for iter := 0; iter < 200; iter++ {
		dur := 25 + rng.Intn(120)
		u := intent("task", cadences[rng.Intn(len(cadences))], windows[rng.Intn(len(windows))], dur, 1, 1+rng.Intn(20))
		var busy []domain.BusyInterval
		for i := 0; i < rng.Intn(30); i++ {
			s := midnight(1).Add(time.Duration(rng.Intn(20*24*4)) * 15 * time.Minute)
			busy = append(busy, domain.BusyInterval{Start: s, End: s.Add(time.Duration(15+rng.Intn(180)) * time.Minute)})
		}
		occ, err := recurrence.Expand(u, 0)
		require.NoError(t, err)
		dailyCap := 1 + rng.Intn(2)
		now := testNow.Add(time.Duration(rng.Intn(48)) * time.Hour)

		res, err := Slot(u, occ, busy, Options{Now: now, DailyCap: dailyCap})
		require.NoError(t, err)

		perDay := map[string]int{}
		for _, d := range res.Drafts {
			assert.Equal(t, time.Duration(dur)*time.Minute, d.EndsAt.Sub(d.StartsAt), "iter %d", iter)
			assert.False(t, d.StartsAt.Before(now), "iter %d: draft before now", iter)
			assert.False(t, timewin.AnyOverlap(d.StartsAt, d.EndsAt, busy), "iter %d: draft overlaps busy", iter)
			perDay[timewin.DateKey(d.StartsAt, loc)]++
		}
		for day, n := range perDay {
			assert.LessOrEqual(t, n, dailyCap, "iter %d: day %s over cap", iter, day)
		}
		assert.Equal(t, len(occ), len(res.Drafts)+len(res.Dropped), "iter %d: every occurrence accounted for", iter)
	}
}
