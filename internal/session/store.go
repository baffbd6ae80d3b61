package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dailies/internal/config"
)

// Store persists cross-invocation session state: the active project and a
// history of import runs. Backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// RunRecord summarizes one completed import run.
type RunRecord struct {
	ID          string
	ProjectName string
	SourcePath  string
	StartedAt   time.Time
	FinishedAt  time.Time
	Success     bool
	Imported    int
	Normalized  int
	Proxied     int
	Transcribed int
	Markers     int
	Segments    int
	Warnings    int
	Errors      int
}

// Open initializes or connects to the session database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.Paths.SessionDB
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("session database path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure session directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applySchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS session_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS import_runs (
    id TEXT PRIMARY KEY,
    project_name TEXT NOT NULL,
    source_path TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    success INTEGER NOT NULL,
    imported INTEGER NOT NULL DEFAULT 0,
    normalized INTEGER NOT NULL DEFAULT 0,
    proxied INTEGER NOT NULL DEFAULT 0,
    transcribed INTEGER NOT NULL DEFAULT 0,
    markers INTEGER NOT NULL DEFAULT 0,
    segments INTEGER NOT NULL DEFAULT 0,
    warnings INTEGER NOT NULL DEFAULT 0,
    errors INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_import_runs_started ON import_runs(started_at DESC);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply session schema: %w", err)
	}
	return nil
}

const activeProjectKey = "active_project"

// ActiveProject returns the currently active project name, or "" when none
// has been set.
func (s *Store) ActiveProject(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_state WHERE key = ?`, activeProjectKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read active project: %w", err)
	}
	return value, nil
}

// SetActiveProject records name as the session's active project.
func (s *Store) SetActiveProject(ctx context.Context, name string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		activeProjectKey, name, now)
	if err != nil {
		return fmt.Errorf("set active project: %w", err)
	}
	return nil
}

// RecordRun appends one import run to the history.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("run record requires an id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (
            id, project_name, source_path, started_at, finished_at, success,
            imported, normalized, proxied, transcribed, markers, segments,
            warnings, errors
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.ProjectName,
		rec.SourcePath,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(rec.Success),
		rec.Imported, rec.Normalized, rec.Proxied, rec.Transcribed,
		rec.Markers, rec.Segments, rec.Warnings, rec.Errors)
	if err != nil {
		return fmt.Errorf("record import run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_name, source_path, started_at, finished_at, success,
                imported, normalized, proxied, transcribed, markers, segments,
                warnings, errors
         FROM import_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started, finished string
		var success int
		if err := rows.Scan(
			&rec.ID, &rec.ProjectName, &rec.SourcePath, &started, &finished, &success,
			&rec.Imported, &rec.Normalized, &rec.Proxied, &rec.Transcribed,
			&rec.Markers, &rec.Segments, &rec.Warnings, &rec.Errors,
		); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		rec.Success = success != 0
		if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
			rec.StartedAt = ts
		}
		if ts, err := time.Parse(time.RFC3339Nano, finished); err == nil {
			rec.FinishedAt = ts
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
