package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/ics"
	"github.com/alexanderramin/timeblock/internal/repository"
)

// DefaultCalendarSource names imported rows when the caller gives no source.
const DefaultCalendarSource = "ics"

// ErrReservedSource rejects imports that would overwrite planner placements.
var ErrReservedSource = errors.New("calendar source is reserved")

type calendarService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCalendarService(uow db.UnitOfWork, observers ...UseCaseObserver) CalendarService {
	return &calendarService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Import parses an iCalendar feed, expands it over [From, To) and replaces
// the source's cached busy intervals in that window. Free instances are
// counted but not cached.
func (s *calendarService) Import(ctx context.Context, req app.CalendarImportRequest) (resp *app.CalendarImportResponse, err error) {
	startedAt := time.Now().UTC()
	source := req.Source
	if source == "" {
		source = DefaultCalendarSource
	}
	fields := map[string]any{"user_id": req.UserID, "source": source}
	defer observe(ctx, s.observer, "calendar-import", startedAt, fields, &err)

	if source == domain.SourcePlanner {
		return nil, fmt.Errorf("%q: %w", source, ErrReservedSource)
	}
	if !req.To.After(req.From) {
		return nil, fmt.Errorf("import window end %s must be after start %s", req.To.Format(time.RFC3339), req.From.Format(time.RFC3339))
	}
	loc, err := domain.LoadLocation(timezoneOrDefault(req.Timezone))
	if err != nil {
		return nil, err
	}

	cal, err := ics.Parse(req.Reader, loc)
	if err != nil {
		return nil, err
	}
	expansion, err := ics.Expand(cal.Events, req.From, req.To, ics.DefaultMaxPerEvent)
	if err != nil {
		return nil, err
	}

	resp = &app.CalendarImportResponse{
		Parsed:    len(cal.Events),
		Skipped:   cal.Skipped,
		Truncated: expansion.Truncated,
	}
	items := make([]domain.CachedBusy, 0, len(expansion.Events))
	for _, ev := range expansion.Events {
		if !ev.IsBusy() {
			resp.Free++
			continue
		}
		items = append(items, domain.CachedBusy{Source: source, Title: ev.Title, Start: ev.Start, End: ev.End})
	}
	resp.Busy = len(items)
	fields["busy"] = resp.Busy
	fields["free"] = resp.Free
	fields["skipped"] = len(resp.Skipped)

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBusyRepo(tx).ReplaceWindow(ctx, req.UserID, source, req.From, req.To, items, now)
	})
	if err != nil {
		return nil, fmt.Errorf("caching busy intervals: %w", err)
	}
	return resp, nil
}
