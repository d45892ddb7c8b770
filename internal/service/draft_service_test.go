package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/repository"
	"github.com/alexanderramin/timeblock/internal/testutil"
)

func seedDrafts(t *testing.T, drafts repository.DraftRepo, ds ...domain.EventDraft) {
	t.Helper()
	n, err := drafts.SaveDrafts(context.Background(), testUser, ds, testutil.Monday)
	require.NoError(t, err)
	require.Equal(t, len(ds), n)
}

func TestDraftService_AcceptAndDecline(t *testing.T) {
	drafts, _, uow := setupRepos(t)
	ctx := context.Background()
	a := testutil.NewTestDraft(dec(2, 9, 0))
	b := testutil.NewTestDraft(dec(3, 9, 0))
	c := testutil.NewTestDraft(dec(4, 9, 0))
	seedDrafts(t, drafts, a, b, c)

	svc := NewDraftService(drafts, uow)
	n, err := svc.SetStatus(ctx, testUser, []string{a.ID, b.ID}, domain.DraftAccepted)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = svc.SetStatus(ctx, testUser, []string{c.ID}, domain.DraftDeclined)
	require.NoError(t, err)

	accepted, err := svc.List(ctx, testUser, domain.DraftAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 2)
	assert.Equal(t, a.ID, accepted[0].ID)
	assert.Equal(t, b.ID, accepted[1].ID)

	declined, err := svc.List(ctx, testUser, domain.DraftDeclined)
	require.NoError(t, err)
	require.Len(t, declined, 1)
	assert.Equal(t, c.ID, declined[0].ID)
}

func TestDraftService_UnknownIDFailsWholeBatch(t *testing.T) {
	drafts, _, uow := setupRepos(t)
	ctx := context.Background()
	a := testutil.NewTestDraft(dec(2, 9, 0))
	seedDrafts(t, drafts, a)

	svc := NewDraftService(drafts, uow)
	_, err := svc.SetStatus(ctx, testUser, []string{a.ID, "missing"}, domain.DraftAccepted)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := drafts.GetByID(ctx, testUser, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftProposed, got.Status)

	_, err = svc.SetStatus(ctx, testUser, []string{a.ID}, "maybe")
	assert.Error(t, err)
}

func TestDraftService_Export(t *testing.T) {
	drafts, _, uow := setupRepos(t)
	ctx := context.Background()
	a := testutil.NewTestDraft(dec(2, 9, 0))
	b := testutil.NewTestDraft(dec(3, 9, 0))
	seedDrafts(t, drafts, a, b)
	svc := NewDraftService(drafts, uow)
	_, err := svc.SetStatus(ctx, testUser, []string{a.ID}, domain.DraftAccepted)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := svc.Export(ctx, testUser, domain.DraftAccepted, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, a.ID)
	assert.NotContains(t, out, b.ID)

	buf.Reset()
	n, err = svc.Export(ctx, testUser, "", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDraftService_DeleteSeries(t *testing.T) {
	drafts, _, uow := setupRepos(t)
	ctx := context.Background()
	seedDrafts(t, drafts,
		testutil.NewTestDraft(dec(2, 9, 0)),
		testutil.NewTestDraft(dec(3, 9, 0)),
		testutil.NewTestDraft(dec(2, 12, 0), testutil.WithSeries("series-read"), testutil.WithTitle("read")),
	)
	obs := &recordingObserver{}

	n, err := NewDraftService(drafts, uow, obs).DeleteSeries(ctx, testUser, "series-walk")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, obs.last().Fields["deleted"])

	left, err := drafts.ListByUser(ctx, testUser, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "read", left[0].Title)
}
