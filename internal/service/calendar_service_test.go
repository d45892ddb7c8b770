package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/testutil"
)

func calendarFeed(events ...string) string {
	return "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n" +
		strings.Join(events, "") +
		"END:VCALENDAR\r\n"
}

func vevent(uid, summary, start, end string, extra ...string) string {
	return "BEGIN:VEVENT\r\n" +
		"UID:" + uid + "\r\n" +
		"SUMMARY:" + summary + "\r\n" +
		"DTSTART:" + start + "\r\n" +
		"DTEND:" + end + "\r\n" +
		strings.Join(extra, "") +
		"END:VEVENT\r\n"
}

func TestCalendarImport_CachesBusyInstances(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	ctx := context.Background()

	feed := calendarFeed(
		vevent("standup", "Standup", "20251201T090000Z", "20251201T091500Z", "RRULE:FREQ=DAILY;COUNT=3\r\n"),
		vevent("hold", "Focus hold", "20251201T130000Z", "20251201T150000Z", "TRANSP:TRANSPARENT\r\n"),
	)
	resp, err := NewCalendarService(uow).Import(ctx, app.CalendarImportRequest{
		UserID: testUser,
		Reader: strings.NewReader(feed),
		From:   dec(1, 0, 0),
		To:     dec(8, 0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Parsed)
	assert.Equal(t, 3, resp.Busy)
	assert.Equal(t, 1, resp.Free)
	assert.Empty(t, resp.Skipped)

	cached, err := busy.ListWindow(ctx, testUser, dec(1, 0, 0), dec(8, 0, 0))
	require.NoError(t, err)
	require.Len(t, cached, 3)
	for i, c := range cached {
		assert.Equal(t, DefaultCalendarSource, c.Source)
		assert.Equal(t, dec(1+i, 9, 0), c.Start)
	}

	// The cached calendar now steers proposals.
	now := testutil.Monday
	u := onceIntent("read", 2, domain.WindowMorning)
	proposed, err := NewProposeService(drafts, busy, uow).Propose(ctx, app.ProposeRequest{UserID: testUser, Intent: u, Now: &now})
	require.NoError(t, err)
	require.Len(t, proposed.Drafts, 1)
	assert.Equal(t, dec(2, 9, 30), proposed.Drafts[0].StartsAt)
}

func TestCalendarImport_ReimportReplacesWindow(t *testing.T) {
	_, busy, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewCalendarService(uow)

	req := app.CalendarImportRequest{
		UserID: testUser,
		Source: "work",
		From:   dec(1, 0, 0),
		To:     dec(8, 0, 0),
	}
	req.Reader = strings.NewReader(calendarFeed(
		vevent("a", "A", "20251201T090000Z", "20251201T100000Z"),
		vevent("b", "B", "20251202T090000Z", "20251202T100000Z"),
	))
	_, err := svc.Import(ctx, req)
	require.NoError(t, err)

	req.Reader = strings.NewReader(calendarFeed(
		vevent("b", "B moved", "20251203T090000Z", "20251203T100000Z"),
	))
	_, err = svc.Import(ctx, req)
	require.NoError(t, err)

	cached, err := busy.ListWindow(ctx, testUser, dec(1, 0, 0), dec(8, 0, 0))
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "B moved", cached[0].Title)
	assert.Equal(t, "work", cached[0].Source)
}

func TestCalendarImport_Rejects(t *testing.T) {
	_, _, uow := setupRepos(t)
	svc := NewCalendarService(uow)
	feed := calendarFeed(vevent("a", "A", "20251201T090000Z", "20251201T100000Z"))

	_, err := svc.Import(context.Background(), app.CalendarImportRequest{
		UserID: testUser,
		Source: domain.SourcePlanner,
		Reader: strings.NewReader(feed),
		From:   dec(1, 0, 0),
		To:     dec(8, 0, 0),
	})
	assert.ErrorIs(t, err, ErrReservedSource)

	_, err = svc.Import(context.Background(), app.CalendarImportRequest{
		UserID: testUser,
		Reader: strings.NewReader(feed),
		From:   dec(8, 0, 0),
		To:     dec(1, 0, 0),
	})
	assert.Error(t, err)

	_, err = svc.Import(context.Background(), app.CalendarImportRequest{
		UserID:   testUser,
		Reader:   strings.NewReader(feed),
		Timezone: "Nowhere/Special",
		From:     dec(1, 0, 0),
		To:       dec(8, 0, 0),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
}
