package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/ics"
	"github.com/alexanderramin/timeblock/internal/repository"
)

type draftService struct {
	drafts   repository.DraftRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDraftService(drafts repository.DraftRepo, uow db.UnitOfWork, observers ...UseCaseObserver) DraftService {
	return &draftService{drafts: drafts, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *draftService) List(ctx context.Context, userID string, status domain.DraftStatus) ([]*domain.StoredDraft, error) {
	return s.drafts.ListByUser(ctx, userID, status)
}

// SetStatus moves every listed draft to status in one transaction. An
// unknown id fails the whole batch.
func (s *draftService) SetStatus(ctx context.Context, userID string, ids []string, status domain.DraftStatus) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": userID, "status": string(status), "drafts": len(ids)}
	defer observe(ctx, s.observer, "review-drafts", startedAt, fields, &err)

	if _, ok := domain.ParseDraftStatus(string(status)); !ok {
		return 0, fmt.Errorf("unknown draft status %q", status)
	}
	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		drafts := repository.NewSQLiteDraftRepo(tx)
		for _, id := range ids {
			if err := drafts.UpdateStatus(ctx, userID, id, status, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *draftService) DeleteSeries(ctx context.Context, userID, seriesID string) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": userID, "series_id": seriesID}
	defer observe(ctx, s.observer, "delete-series", startedAt, fields, &err)

	n, err = s.drafts.DeleteSeries(ctx, userID, seriesID)
	fields["deleted"] = n
	return n, err
}

// Export writes the user's drafts with the given status (all when empty)
// as one iCalendar document.
func (s *draftService) Export(ctx context.Context, userID string, status domain.DraftStatus, w io.Writer) (int, error) {
	drafts, err := s.drafts.ListByUser(ctx, userID, status)
	if err != nil {
		return 0, err
	}
	if _, err := io.WriteString(w, ics.Export(drafts, time.Now().UTC())); err != nil {
		return 0, fmt.Errorf("writing calendar: %w", err)
	}
	return len(drafts), nil
}
