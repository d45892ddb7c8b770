package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/timeblock/internal/app"
	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/intent"
	"github.com/alexanderramin/timeblock/internal/recurrence"
	"github.com/alexanderramin/timeblock/internal/repository"
	"github.com/alexanderramin/timeblock/internal/slotting"
)

type proposeService struct {
	interpreter *intent.Interpreter
	drafts      repository.DraftRepo
	busy        repository.BusyRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewProposeService(
	drafts repository.DraftRepo,
	busy repository.BusyRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProposeService {
	return &proposeService{
		interpreter: intent.New(),
		drafts:      drafts,
		busy:        busy,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *proposeService) Interpret(ctx context.Context, req app.InterpretRequest) (u *domain.UnifiedScheduleIntent, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"timezone": req.Timezone}
	defer observe(ctx, s.observer, "interpret", startedAt, fields, &err)

	parsed, err := s.interpreter.Interpret(req.Text, timezoneOrDefault(req.Timezone), resolveNow(req.Now))
	if err != nil {
		return nil, fmt.Errorf("interpreting request: %w", err)
	}
	fields["cadence"] = string(parsed.Cadence.Kind)
	return &parsed, nil
}

// Propose runs the single-intent proposal: interpret, expand, slot against the busy
// intervals known for the horizon, and optionally store the drafts.
func (s *proposeService) Propose(ctx context.Context, req app.ProposeRequest) (resp *app.ProposeResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID, "persist": req.Persist}
	defer observe(ctx, s.observer, "propose", startedAt, fields, &err)

	now := resolveNow(req.Now)
	var u domain.UnifiedScheduleIntent
	if req.Intent != nil {
		u = *req.Intent
		if err = u.Validate(); err != nil {
			return nil, err
		}
	} else {
		u, err = s.interpreter.Interpret(req.Text, timezoneOrDefault(req.Timezone), now)
		if err != nil {
			return nil, fmt.Errorf("interpreting request: %w", err)
		}
	}
	fields["cadence"] = string(u.Cadence.Kind)

	policy := req.Policy
	if policy.Mode == "" {
		policy.Mode = domain.OverlapNone
	}
	if err = policy.Validate(); err != nil {
		return nil, err
	}

	loc, err := u.Location()
	if err != nil {
		return nil, err
	}
	occurrences, err := recurrence.Expand(u, req.MaxOccurrences)
	if err != nil {
		return nil, fmt.Errorf("expanding cadence: %w", err)
	}
	fields["occurrences"] = len(occurrences)

	hStart, hEnd := recurrence.Horizon(u, loc)
	hEnd = hEnd.AddDate(0, 0, 1)
	busy, cached, err := s.loadBusy(ctx, req.UserID, slotting.SeriesID(u, loc), hStart, hEnd)
	if err != nil {
		return nil, err
	}
	busy = append(busy, req.Busy...)

	result, err := slotting.Slot(u, occurrences, busy, slotting.Options{
		Now:      now,
		DailyCap: req.DailyCap,
		Policy:   policy,
	})
	if err != nil {
		return nil, fmt.Errorf("slotting occurrences: %w", err)
	}
	fields["drafts"] = len(result.Drafts)
	fields["dropped"] = len(result.Dropped)

	resp = &app.ProposeResponse{
		Intent:      u,
		Occurrences: occurrences,
		Drafts:      result.Drafts,
		Dropped:     result.Dropped,
		CachedBusy:  cached,
	}
	if !req.Persist || len(result.Drafts) == 0 {
		return resp, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		saved, err := repository.NewSQLiteDraftRepo(tx).SaveDrafts(ctx, req.UserID, result.Drafts, now)
		if err != nil {
			return err
		}
		resp.Saved = saved
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving drafts: %w", err)
	}
	fields["saved"] = resp.Saved
	return resp, nil
}

// loadBusy collects cached busy intervals and accepted drafts overlapping
// [from, to). The count covers the cache rows only.
func (s *proposeService) loadBusy(ctx context.Context, userID, seriesID string, from, to time.Time) ([]domain.BusyInterval, int, error) {
	cached, err := s.busy.ListWindow(ctx, userID, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("loading busy intervals: %w", err)
	}
	out := make([]domain.BusyInterval, 0, len(cached))
	for _, c := range cached {
		if iv := c.Interval(); iv.Valid() {
			out = append(out, iv)
		}
	}

	accepted, err := s.drafts.ListByUser(ctx, userID, domain.DraftAccepted)
	if err != nil {
		return nil, 0, fmt.Errorf("loading accepted drafts: %w", err)
	}
	out = append(out, busyFromDrafts(accepted, seriesID, from, to)...)
	return out, len(cached), nil
}
