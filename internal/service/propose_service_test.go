package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/repository"
	"github.com/alexanderramin/timeblock/internal/slotting"
	"github.com/alexanderramin/timeblock/internal/testutil"
)

func TestPropose_FromTextPersistsDrafts(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	ctx := context.Background()
	now := testutil.Monday

	svc := NewProposeService(drafts, busy, uow)
	resp, err := svc.Propose(ctx, app.ProposeRequest{
		UserID:   testUser,
		Text:     "deep work tomorrow morning 60 min",
		Timezone: "UTC",
		Now:      &now,
		Persist:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "deep work", resp.Intent.Goal)
	require.Len(t, resp.Drafts, 1)
	assert.Equal(t, dec(2, 9, 0), resp.Drafts[0].StartsAt)
	assert.Equal(t, dec(2, 10, 0), resp.Drafts[0].EndsAt)
	assert.Equal(t, 1, resp.Saved)

	stored, err := drafts.ListByUser(ctx, testUser, domain.DraftProposed)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, resp.Drafts[0].ID, stored[0].ID)
}

func TestPropose_WithoutPersistStoresNothing(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	ctx := context.Background()
	now := testutil.Monday

	resp, err := NewProposeService(drafts, busy, uow).Propose(ctx, app.ProposeRequest{
		UserID: testUser,
		Intent: onceIntent("read", 2, domain.WindowMorning),
		Now:    &now,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Drafts, 1)
	assert.Zero(t, resp.Saved)

	stored, err := drafts.ListByUser(ctx, testUser, "")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPropose_RerunIsIdempotent(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	ctx := context.Background()
	now := testutil.Monday
	svc := NewProposeService(drafts, busy, uow)

	req := app.ProposeRequest{
		UserID:  testUser,
		Intent:  onceIntent("read", 2, domain.WindowMorning),
		Now:     &now,
		Persist: true,
	}
	first, err := svc.Propose(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Saved)

	second, err := svc.Propose(ctx, req)
	require.NoError(t, err)
	assert.Zero(t, second.Saved)
	assert.Equal(t, first.Drafts, second.Drafts)
}

func TestPropose_CachedBusyMovesDraft(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	ctx := context.Background()
	now := testutil.Monday

	require.NoError(t, busy.ReplaceWindow(ctx, testUser, "ics", dec(2, 0, 0), dec(3, 0, 0),
		[]domain.CachedBusy{{Title: "dentist", Start: dec(2, 9, 0), End: dec(2, 10, 0)}}, now))
	// Another user's calendar is invisible.
	require.NoError(t, busy.ReplaceWindow(ctx, "other", "ics", dec(2, 0, 0), dec(3, 0, 0),
		[]domain.CachedBusy{{Title: "theirs", Start: dec(2, 10, 0), End: dec(2, 11, 0)}}, now))

	resp, err := NewProposeService(drafts, busy, uow).Propose(ctx, app.ProposeRequest{
		UserID: testUser,
		Intent: onceIntent("read", 2, domain.WindowMorning),
		Now:    &now,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CachedBusy)
	require.Len(t, resp.Drafts, 1)
	assert.Equal(t, dec(2, 10, 0), resp.Drafts[0].StartsAt)
}

func TestPropose_RequestBusyJoinsCache(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	now := testutil.Monday

	resp, err := NewProposeService(drafts, busy, uow).Propose(context.Background(), app.ProposeRequest{
		UserID: testUser,
		Intent: onceIntent("read", 2, domain.WindowMorning),
		Now:    &now,
		Busy:   []domain.BusyInterval{{Start: dec(2, 9, 0), End: dec(2, 11, 0)}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Drafts, 1)
	assert.Equal(t, dec(2, 11, 0), resp.Drafts[0].StartsAt)
}

func TestPropose_AcceptedDraftsBlockOtherSeries(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	ctx := context.Background()
	now := testutil.Monday
	svc := NewProposeService(drafts, busy, uow)

	readReq := app.ProposeRequest{UserID: testUser, Intent: onceIntent("read", 2, domain.WindowMorning), Now: &now, Persist: true}
	read, err := svc.Propose(ctx, readReq)
	require.NoError(t, err)
	require.Len(t, read.Drafts, 1)
	require.NoError(t, drafts.UpdateStatus(ctx, testUser, read.Drafts[0].ID, domain.DraftAccepted, now))

	write, err := svc.Propose(ctx, app.ProposeRequest{UserID: testUser, Intent: onceIntent("write", 2, domain.WindowMorning), Now: &now})
	require.NoError(t, err)
	require.Len(t, write.Drafts, 1)
	assert.Equal(t, dec(2, 10, 0), write.Drafts[0].StartsAt)

	again, err := svc.Propose(ctx, readReq)
	require.NoError(t, err)
	require.Len(t, again.Drafts, 1)
	assert.Equal(t, dec(2, 9, 0), again.Drafts[0].StartsAt, "a series is not blocked by its own drafts")
	assert.Zero(t, again.Saved)
}

func TestPropose_DailyCapAndDrops(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	now := testutil.Monday
	start, end := dec(1, 0, 0), dec(3, 0, 0)
	u := &domain.UnifiedScheduleIntent{
		Goal:            "stretch",
		DurationMinutes: 30,
		Cadence:         domain.Daily(),
		Window:          domain.WindowEvening,
		StartDate:       start,
		EndDate:         &end,
		Timezone:        "UTC",
		Priority:        domain.DefaultPriority,
	}

	resp, err := NewProposeService(drafts, busy, uow).Propose(context.Background(), app.ProposeRequest{
		UserID:         testUser,
		Intent:         u,
		Now:            &now,
		MaxOccurrences: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{dec(1, 0, 0), dec(2, 0, 0)}, resp.Occurrences)
	require.Len(t, resp.Drafts, 2)
	assert.Equal(t, dec(1, 18, 0), resp.Drafts[0].StartsAt)
	assert.Equal(t, dec(2, 18, 0), resp.Drafts[1].StartsAt)
	assert.Empty(t, resp.Dropped)
}

func TestPropose_ExhaustedOccurrenceIsDropped(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	now := testutil.Monday

	resp, err := NewProposeService(drafts, busy, uow).Propose(context.Background(), app.ProposeRequest{
		UserID: testUser,
		Intent: onceIntent("read", 2, domain.WindowMorning),
		Now:    &now,
		Busy:   []domain.BusyInterval{{Start: dec(2, 0, 0), End: dec(3, 0, 0)}},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Drafts)
	require.Len(t, resp.Dropped, 1)
	assert.Equal(t, slotting.DropExhausted, resp.Dropped[0].Reason)
}

func TestPropose_InvalidInput(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	now := testutil.Monday
	svc := NewProposeService(drafts, busy, uow)

	bad := onceIntent("", 2, domain.WindowMorning)
	_, err := svc.Propose(context.Background(), app.ProposeRequest{UserID: testUser, Intent: bad, Now: &now})
	assert.ErrorIs(t, err, domain.ErrInvalidIntent)

	_, err = svc.Propose(context.Background(), app.ProposeRequest{UserID: testUser, Text: "read", Timezone: "Mars/Olympus", Now: &now})
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	_, err = svc.Propose(context.Background(), app.ProposeRequest{
		UserID: testUser,
		Intent: onceIntent("read", 2, domain.WindowMorning),
		Now:    &now,
		Policy: domain.OverlapPolicy{Mode: "sometimes"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidIntent)
}

func TestPropose_SaveFailureRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	drafts := repository.NewSQLiteDraftRepo(database)
	busy := repository.NewSQLiteBusyRepo(database)
	injected := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: injected}
	now := testutil.Monday

	_, err := NewProposeService(drafts, busy, uow).Propose(context.Background(), app.ProposeRequest{
		UserID:  testUser,
		Intent:  onceIntent("read", 2, domain.WindowMorning),
		Now:     &now,
		Persist: true,
	})
	require.ErrorIs(t, err, injected)

	stored, err := drafts.ListByUser(context.Background(), testUser, "")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPropose_ReportsUseCase(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	obs := &recordingObserver{}
	now := testutil.Monday

	_, err := NewProposeService(drafts, busy, uow, obs).Propose(context.Background(), app.ProposeRequest{
		UserID: testUser,
		Intent: onceIntent("read", 2, domain.WindowMorning),
		Now:    &now,
	})
	require.NoError(t, err)

	ev := obs.last()
	assert.Equal(t, "propose", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.Fields["drafts"])
	assert.Equal(t, 0, ev.Fields["dropped"])
}

func TestInterpret(t *testing.T) {
	drafts, busy, uow := setupRepos(t)
	now := testutil.Monday

	u, err := NewProposeService(drafts, busy, uow).Interpret(context.Background(), app.InterpretRequest{
		Text: "swim 3 times a week",
		Now:  &now,
	})
	require.NoError(t, err)
	assert.Equal(t, "UTC", u.Timezone)
	assert.Equal(t, domain.Weekly(time.Monday, time.Wednesday, time.Friday), u.Cadence)
}
