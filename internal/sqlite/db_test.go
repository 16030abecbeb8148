package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func insertUser(t *testing.T, db *DB, id string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, username, role, timezone, created_at) VALUES (?, ?, 'user', 'UTC', ?)`,
		id, "name-"+id, time.Now().UTC())
	require.NoError(t, err)
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"users",
		"api_keys",
		"activities",
		"stamps",
		"regimes",
		"journal",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsIdempotent verifies the schema can be applied on every start
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestNewCreatesParentDir verifies a file database can live in a new directory
func TestNewCreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	db, err := New(filepath.Join(dir, "timebank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, prepareDir(":memory:"))
	require.NoError(t, prepareDir("file:x?mode=memory&cache=shared"))
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestStampsTable verifies the start/activity pairing constraint
func TestStampsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")

	_, err := db.ExecContext(ctx,
		`INSERT INTO stamps (id, user_id, timestamp_ms, type, activity_id) VALUES (?, ?, ?, ?, ?)`,
		"s1", "u1", 1000, "start", "deleted-activity")
	require.NoError(t, err, "stamps may reference activities that no longer exist")

	_, err = db.ExecContext(ctx,
		`INSERT INTO stamps (id, user_id, timestamp_ms, type, activity_id) VALUES (?, ?, ?, ?, NULL)`,
		"s2", "u1", 2000, "start")
	require.Error(t, err, "start without activity should fail")

	_, err = db.ExecContext(ctx,
		`INSERT INTO stamps (id, user_id, timestamp_ms, type, activity_id) VALUES (?, ?, ?, ?, ?)`,
		"s3", "u1", 3000, "stop", "a1")
	require.Error(t, err, "stop with activity should fail")

	_, err = db.ExecContext(ctx,
		`INSERT INTO stamps (id, user_id, timestamp_ms, type, activity_id) VALUES (?, ?, ?, ?, NULL)`,
		"s4", "u1", 4000, "pause")
	require.Error(t, err, "unknown type should fail")
}
