package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/domain"
)

const draftColumns = `id, user_id, series_id, title, starts_at, ends_at, rationale, confidence, status, created_at`

// SQLiteDraftRepo implements DraftRepo using a SQLite database.
type SQLiteDraftRepo struct {
	db db.DBTX
}

func NewSQLiteDraftRepo(conn db.DBTX) *SQLiteDraftRepo {
	return &SQLiteDraftRepo{db: conn}
}

// SaveDrafts inserts drafts as proposed and returns how many were new.
// Re-proposing the same series never duplicates a draft.
func (r *SQLiteDraftRepo) SaveDrafts(ctx context.Context, userID string, drafts []domain.EventDraft, now time.Time) (int, error) {
	query := `INSERT INTO event_drafts (` + draftColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`
	stamp := formatTime(now)
	inserted := 0
	for _, d := range drafts {
		res, err := r.db.ExecContext(ctx, query,
			d.ID,
			userID,
			d.SeriesID,
			d.Title,
			formatTime(d.StartsAt),
			formatTime(d.EndsAt),
			d.Rationale,
			d.Confidence,
			string(domain.DraftProposed),
			stamp,
			stamp,
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting draft %s: %w", d.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("reading rows affected: %w", err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

func (r *SQLiteDraftRepo) GetByID(ctx context.Context, userID, id string) (*domain.StoredDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM event_drafts WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userID, id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return d, err
}

// ListByUser returns the user's drafts in start order; an empty status
// matches every status.
func (r *SQLiteDraftRepo) ListByUser(ctx context.Context, userID string, status domain.DraftStatus) ([]*domain.StoredDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM event_drafts
		WHERE user_id = ? AND (? = '' OR status = ?)
		ORDER BY starts_at, series_id`
	rows, err := r.db.QueryContext(ctx, query, userID, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()
	return scanDrafts(rows)
}

func (r *SQLiteDraftRepo) ListBySeries(ctx context.Context, userID, seriesID string) ([]*domain.StoredDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM event_drafts
		WHERE user_id = ? AND series_id = ?
		ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, query, userID, seriesID)
	if err != nil {
		return nil, fmt.Errorf("listing drafts by series: %w", err)
	}
	defer rows.Close()
	return scanDrafts(rows)
}

func (r *SQLiteDraftRepo) UpdateStatus(ctx context.Context, userID, id string, status domain.DraftStatus, now time.Time) error {
	if _, ok := domain.ParseDraftStatus(string(status)); !ok {
		return fmt.Errorf("invalid draft status %q", status)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE event_drafts SET status = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		string(status), formatTime(now), userID, id)
	if err != nil {
		return fmt.Errorf("updating draft status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteDraftRepo) DeleteSeries(ctx context.Context, userID, seriesID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_drafts WHERE user_id = ? AND series_id = ?`, userID, seriesID)
	if err != nil {
		return 0, fmt.Errorf("deleting series %s: %w", seriesID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*domain.StoredDraft, error) {
	var d domain.StoredDraft
	var startsAt, endsAt, status, createdAt string
	err := row.Scan(
		&d.ID, &d.UserID, &d.SeriesID, &d.Title, &startsAt, &endsAt,
		&d.Rationale, &d.Confidence, &status, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning draft: %w", err)
	}

	if d.StartsAt, err = parseTime("starts_at", startsAt); err != nil {
		return nil, err
	}
	if d.EndsAt, err = parseTime("ends_at", endsAt); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	s, ok := domain.ParseDraftStatus(status)
	if !ok {
		return nil, fmt.Errorf("draft %s has unknown status %q", d.ID, status)
	}
	d.Status = s
	return &d, nil
}

func scanDrafts(rows *sql.Rows) ([]*domain.StoredDraft, error) {
	var drafts []*domain.StoredDraft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	return drafts, nil
}
