package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
)

// DraftRepo is the draft store. Drafts are keyed per user; saving a draft
// whose (user, series, start) already exists is a no-op.
type DraftRepo interface {
	SaveDrafts(ctx context.Context, userID string, drafts []domain.EventDraft, now time.Time) (int, error)
	GetByID(ctx context.Context, userID, id string) (*domain.StoredDraft, error)
	ListByUser(ctx context.Context, userID string, status domain.DraftStatus) ([]*domain.StoredDraft, error)
	ListBySeries(ctx context.Context, userID, seriesID string) ([]*domain.StoredDraft, error)
	UpdateStatus(ctx context.Context, userID, id string, status domain.DraftStatus, now time.Time) error
	DeleteSeries(ctx context.Context, userID, seriesID string) (int, error)
}

// BusyRepo caches busy intervals per user and source.
type BusyRepo interface {
	ReplaceWindow(ctx context.Context, userID, source string, from, to time.Time, items []domain.CachedBusy, now time.Time) error
	ListWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.CachedBusy, error)
	AddPlaced(ctx context.Context, userID string, events []domain.PlannedEvent, now time.Time) error
}
