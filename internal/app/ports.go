package app

import (
	"context"
	"io"

	"github.com/alexanderramin/timeblock/internal/domain"
)

type InterpretUseCase interface {
	Interpret(ctx context.Context, req InterpretRequest) (*domain.UnifiedScheduleIntent, error)
}

type ProposeUseCase interface {
	Propose(ctx context.Context, req ProposeRequest) (*ProposeResponse, error)
}

type PlanUseCase interface {
	Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error)
}

type CalendarImportUseCase interface {
	Import(ctx context.Context, req CalendarImportRequest) (*CalendarImportResponse, error)
}

// DraftReviewUseCase lists stored drafts and moves them through review.
type DraftReviewUseCase interface {
	List(ctx context.Context, userID string, status domain.DraftStatus) ([]*domain.StoredDraft, error)
	SetStatus(ctx context.Context, userID string, ids []string, status domain.DraftStatus) (int, error)
	DeleteSeries(ctx context.Context, userID, seriesID string) (int, error)
	Export(ctx context.Context, userID string, status domain.DraftStatus, w io.Writer) (int, error)
}
