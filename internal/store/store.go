package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/vitalog/internal/logger"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
		logger.Info("migrated schema", "version", 1)
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS daily_logs (
		user_id           TEXT NOT NULL,
		id                TEXT NOT NULL,
		date              TEXT NOT NULL,
		sleep_minutes     INTEGER,
		sleep_quality     INTEGER,
		exercise_minutes  INTEGER,
		steps             INTEGER,
		exercise_kind     TEXT NOT NULL DEFAULT '',
		calories          INTEGER,
		protein_g         INTEGER,
		water_ml          INTEGER,
		resting_hr        INTEGER,
		hrv               INTEGER,
		soreness          INTEGER,
		mood              INTEGER,
		stress            INTEGER,
		energy            INTEGER,
		completed         INTEGER NOT NULL DEFAULT 0,
		notes             TEXT NOT NULL DEFAULT '',
		source            TEXT NOT NULL DEFAULT 'manual',
		created_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		PRIMARY KEY (user_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_logs_date ON daily_logs(user_id, date);

	CREATE TABLE IF NOT EXISTS habit_checks (
		user_id    TEXT NOT NULL,
		log_id     TEXT NOT NULL,
		habit_key  TEXT NOT NULL,
		done       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, log_id, habit_key),
		FOREIGN KEY (user_id, log_id) REFERENCES daily_logs(user_id, id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS habits (
		key         TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		archived    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('sleep_goal',     '480'),
		('exercise_goal',  '30'),
		('week_start',     'monday'),
		('default_source', 'manual');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/vitalog/vitalog.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "vitalog", "vitalog.db"), nil
}
