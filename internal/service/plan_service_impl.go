package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/repository"
	"github.com/alexanderramin/timeblock/internal/scheduler"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

type planService struct {
	drafts   repository.DraftRepo
	busy     repository.BusyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanService(
	drafts repository.DraftRepo,
	busy repository.BusyRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		drafts:   drafts,
		busy:     busy,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Plan runs the task allocator. Earlier planner placements in the cache are never
// treated as busy: a new plan supersedes them.
func (s *planService) Plan(ctx context.Context, req app.PlanRequest) (resp *app.PlanResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"user_id": req.UserID,
		"tasks":   len(req.Tasks),
		"persist": req.Persist,
	}
	defer observe(ctx, s.observer, "plan", startedAt, fields, &err)

	now := resolveNow(req.Now)
	loc, err := req.Preferences.Location()
	if err != nil {
		return nil, err
	}
	from, to := planningWindow(now, loc)

	resp = &app.PlanResponse{}
	events := make([]domain.ExistingEvent, 0, len(req.Events))
	events = append(events, req.Events...)
	if req.UseCache {
		cached, err := s.busy.ListWindow(ctx, req.UserID, from, to)
		if err != nil {
			return nil, fmt.Errorf("loading busy intervals: %w", err)
		}
		for _, c := range cached {
			if c.Source == domain.SourcePlanner {
				continue
			}
			events = append(events, c.AsExisting())
			resp.CachedBusy++
		}
		accepted, err := s.drafts.ListByUser(ctx, req.UserID, domain.DraftAccepted)
		if err != nil {
			return nil, fmt.Errorf("loading accepted drafts: %w", err)
		}
		for _, iv := range busyFromDrafts(accepted, "", from, to) {
			events = append(events, domain.ExistingEvent{Title: "draft", Start: iv.Start, End: iv.End})
		}
	}
	fields["events"] = len(events)

	resp.Result, err = scheduler.Plan(now, req.Tasks, events, req.Preferences)
	if err != nil {
		return nil, err
	}
	fields["placed"] = len(resp.Result.Events)
	fields["unscheduled"] = len(resp.Result.UnscheduledTaskIDs)
	if !req.Persist {
		return resp, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		busy := repository.NewSQLiteBusyRepo(tx)
		if err := busy.ReplaceWindow(ctx, req.UserID, domain.SourcePlanner, from, to, nil, now); err != nil {
			return err
		}
		return busy.AddPlaced(ctx, req.UserID, resp.Result.Events, now)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting placements: %w", err)
	}
	resp.Persisted = len(resp.Result.Events)
	return resp, nil
}

// planningWindow covers every day the allocator may place work on.
func planningWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	from := timewin.StartOfDay(now, loc)
	return from, from.AddDate(0, 0, scheduler.HorizonDays+1)
}
