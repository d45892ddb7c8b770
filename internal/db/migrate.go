package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list is re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS event_drafts (
		id          TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		series_id   TEXT NOT NULL,
		title       TEXT NOT NULL,
		starts_at   TEXT NOT NULL,
		ends_at     TEXT NOT NULL,
		rationale   TEXT NOT NULL DEFAULT '',
		confidence  REAL NOT NULL DEFAULT 0.7,
		status      TEXT NOT NULL DEFAULT 'proposed'
		            CHECK(status IN ('proposed','accepted','declined')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (user_id, id),
		UNIQUE (user_id, series_id, starts_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_event_drafts_user_start ON event_drafts(user_id, starts_at)`,
	`CREATE INDEX IF NOT EXISTS idx_event_drafts_series ON event_drafts(series_id)`,

	`CREATE TABLE IF NOT EXISTS busy_intervals (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     TEXT NOT NULL,
		source      TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		starts_at   TEXT NOT NULL,
		ends_at     TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_busy_user_window ON busy_intervals(user_id, starts_at, ends_at)`,

	// Placed allocator blocks remember the task they came from.
	`ALTER TABLE busy_intervals ADD COLUMN task_id TEXT NOT NULL DEFAULT ''`,
}
