package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/domain"
)

// SQLiteBusyRepo implements BusyRepo using a SQLite database.
type SQLiteBusyRepo struct {
	db db.DBTX
}

func NewSQLiteBusyRepo(conn db.DBTX) *SQLiteBusyRepo {
	return &SQLiteBusyRepo{db: conn}
}

// ReplaceWindow drops the source's rows overlapping [from, to) and stores
// items in their place. Run it inside a UnitOfWork to make the swap atomic.
func (r *SQLiteBusyRepo) ReplaceWindow(ctx context.Context, userID, source string, from, to time.Time, items []domain.CachedBusy, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM busy_intervals
		WHERE user_id = ? AND source = ? AND starts_at < ? AND ends_at > ?`,
		userID, source, formatTime(to), formatTime(from))
	if err != nil {
		return fmt.Errorf("clearing busy window for %s: %w", source, err)
	}
	for _, it := range items {
		it.Source = source
		if err := r.insert(ctx, userID, it, now); err != nil {
			return err
		}
	}
	return nil
}

// ListWindow returns every cached interval of the user overlapping [from, to).
func (r *SQLiteBusyRepo) ListWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.CachedBusy, error) {
	query := `SELECT source, title, starts_at, ends_at, task_id FROM busy_intervals
		WHERE user_id = ? AND starts_at < ? AND ends_at > ?
		ORDER BY starts_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID, formatTime(to), formatTime(from))
	if err != nil {
		return nil, fmt.Errorf("listing busy window: %w", err)
	}
	defer rows.Close()
	return scanBusy(rows)
}

// AddPlaced stores allocator placements under SourcePlanner.
func (r *SQLiteBusyRepo) AddPlaced(ctx context.Context, userID string, events []domain.PlannedEvent, now time.Time) error {
	for _, ev := range events {
		item := domain.CachedBusy{
			Source: domain.SourcePlanner,
			Title:  ev.Title,
			Start:  ev.Start,
			End:    ev.End,
			TaskID: ev.TaskID,
		}
		if err := r.insert(ctx, userID, item, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteBusyRepo) insert(ctx context.Context, userID string, it domain.CachedBusy, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO busy_intervals (user_id, source, title, starts_at, ends_at, task_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, it.Source, it.Title, formatTime(it.Start), formatTime(it.End), it.TaskID, formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting busy interval: %w", err)
	}
	return nil
}

func scanBusy(rows *sql.Rows) ([]domain.CachedBusy, error) {
	var out []domain.CachedBusy
	for rows.Next() {
		var it domain.CachedBusy
		var start, end string
		if err := rows.Scan(&it.Source, &it.Title, &start, &end, &it.TaskID); err != nil {
			return nil, fmt.Errorf("scanning busy interval: %w", err)
		}
		var err error
		if it.Start, err = parseTime("starts_at", start); err != nil {
			return nil, err
		}
		if it.End, err = parseTime("ends_at", end); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating busy intervals: %w", err)
	}
	return out, nil
}
