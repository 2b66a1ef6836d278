// Package sqlite is the embedded storage backend used for local development
// and hermetic tests. It mirrors the PostgreSQL schema and behavior.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB is a Store backed by a single SQLite connection.
type DB struct {
	db *sql.DB
}

var _ storage.Store = (*DB)(nil)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir for %s: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// pragmas are per connection, and an in-memory database only lives as long as its connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %s: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks that the database is usable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	login        TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL,
	last_seen    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
	id           TEXT PRIMARY KEY,
	user_id      INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	name         TEXT NOT NULL CHECK (length(name) <= 100),
	muscle_group TEXT NOT NULL DEFAULT 'Other'
		CHECK (muscle_group IN ('Chest', 'Back', 'Legs', 'Shoulders', 'Arms', 'Core', 'Other')),
	is_active    INTEGER NOT NULL DEFAULT 1,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exercises_user_group_name ON exercises (user_id, muscle_group, name);

CREATE TABLE IF NOT EXISTS workouts (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	day_type   TEXT NOT NULL DEFAULT 'Other'
		CHECK (day_type IN ('Chest_Triceps', 'Back_Biceps', 'Legs_Shoulders', 'FullBody', 'Other')),
	notes      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts (user_id, date DESC, created_at DESC);

CREATE TABLE IF NOT EXISTS set_entries (
	id          TEXT PRIMARY KEY,
	workout_id  TEXT NOT NULL REFERENCES workouts (id) ON DELETE CASCADE,
	exercise_id TEXT NOT NULL REFERENCES exercises (id),
	weight      REAL NOT NULL CHECK (weight >= 0),
	reps        INTEGER NOT NULL CHECK (reps >= 0),
	notes       TEXT NOT NULL DEFAULT '' CHECK (length(notes) <= 255),
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_set_entries_workout ON set_entries (workout_id, created_at);
CREATE INDEX IF NOT EXISTS idx_set_entries_exercise ON set_entries (exercise_id);
`

// GetOrCreateUser finds or creates a user by login name and returns its ID.
func (d *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	now := time.Now().UnixNano()
	var id int
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO users (login, display_name, created_at, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = excluded.last_seen,
			    display_name = COALESCE(NULLIF(excluded.display_name, ''), users.display_name)
		RETURNING id
	`, login, displayName, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting user %q: %w", login, err)
	}
	return id, nil
}

func isForeignKeyViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	// without extended result codes only the primary code is reported
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY")
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

func rowsAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored date %q: %w", s, err)
	}
	return t, nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
