package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/repository"
	"github.com/alexanderramin/timeblock/internal/testutil"
)

const testUser = "u1"

func setupRepos(t *testing.T) (*repository.SQLiteDraftRepo, *repository.SQLiteBusyRepo, db.UnitOfWork) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteDraftRepo(database),
		repository.NewSQLiteBusyRepo(database),
		testutil.NewTestUoW(database)
}

// dec returns a UTC instant in December 2025. Dec 1 is a Monday.
func dec(day, h, m int) time.Time {
	return time.Date(2025, 12, day, h, m, 0, 0, time.UTC)
}

func onceIntent(goal string, day int, w domain.Window) *domain.UnifiedScheduleIntent {
	d := dec(day, 0, 0)
	return &domain.UnifiedScheduleIntent{
		Goal:            goal,
		DurationMinutes: 60,
		Cadence:         domain.Once(),
		Window:          w,
		StartDate:       d,
		EndDate:         &d,
		Timezone:        "UTC",
		Priority:        domain.DefaultPriority,
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}
