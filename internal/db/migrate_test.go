package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"event_drafts", "busy_intervals"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
	for _, idx := range []string{"idx_event_drafts_user_start", "idx_event_drafts_series", "idx_busy_user_window"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_BusyIntervalsTaskColumn(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO busy_intervals (user_id, source, starts_at, ends_at, created_at, task_id)
		VALUES ('u', 'planner', '2025-12-01T09:00:00Z', '2025-12-01T10:00:00Z', '2025-12-01T00:00:00Z', 't1')`)
	require.NoError(t, err)
}

func TestMigrate_DraftSeriesStartIsUnique(t *testing.T) {
	db := openTestDB(t)
	insert := `INSERT INTO event_drafts (id, user_id, series_id, title, starts_at, ends_at, created_at, updated_at)
		VALUES (?, 'u', 's', 'walk', '2025-12-01T18:00:00Z', '2025-12-01T18:30:00Z', 'x', 'x')`
	_, err := db.Exec(insert, "d1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "d2")
	assert.Error(t, err)
}

func TestMigrate_DraftStatusCheck(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO event_drafts (id, user_id, series_id, title, starts_at, ends_at, status, created_at, updated_at)
		VALUES ('d', 'u', 's', 't', 'a', 'b', 'maybe', 'x', 'x')`)
	assert.Error(t, err)
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)
	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}
