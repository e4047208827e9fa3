package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/rankwatch/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "rankwatch.db"

// RankDB stores rank tracking sessions and the log of runs in SQLite.
//
// A session is kept as one JSON document and always replaced as a whole,
// so readers never observe a half-updated history.
type RankDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RankDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that `rankwatch history`
	// can read while `rankwatch watch` writes.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the database in dbDir.
func Open(dbDir string, opts Options) (*RankDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RankDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (r *RankDB) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *RankDB) Path() string {
	return r.dbPath
}

func (r *RankDB) createTables() error {
	schema := `
	-- One JSON document per rank tracking session
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		domain TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One row per orchestrated run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		started_at TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		state TEXT NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session_id, started_at);
	`

	_, err := r.db.ExecContext(context.Background(), schema)
	return err
}

// LoadSession returns the stored session with the given ID, or nil if there
// is none.
func (r *RankDB) LoadSession(ctx context.Context, id string) (*model.Session, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %q: %w", id, err)
	}

	var s model.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %q: %w", id, err)
	}
	if s.ID == "" {
		s.ID = id
	}
	if s.History == nil {
		s.History = make(map[string][]model.RankPoint)
	}
	return &s, nil
}

// SaveSession replaces the stored session with s in a single statement.
func (r *RankDB) SaveSession(ctx context.Context, s *model.Session) error {
	if s == nil || s.ID == "" {
		return ErrInvalidSession
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session %q: %w", s.ID, err)
	}

	query := `
	INSERT INTO sessions (id, domain, data, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		domain = excluded.domain,
		data = excluded.data,
		updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Domain, string(data), formatTimestamp(time.Now())); err != nil {
		return fmt.Errorf("failed to save session %q: %w", s.ID, err)
	}
	return nil
}

// ClearSession deletes the session and its run log. It reports whether a
// session existed.
func (r *RankDB) ClearSession(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete session %q: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE session_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete runs of session %q: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SessionInfo is a stored session's listing entry.
type SessionInfo struct {
	ID        string
	Domain    string
	UpdatedAt time.Time
}

// ListSessions returns every stored session ordered by ID.
func (r *RankDB) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, domain, updated_at FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var updatedAt string
		if err := rows.Scan(&info.ID, &info.Domain, &updatedAt); err != nil {
			return nil, err
		}
		info.UpdatedAt = parseTimestamp(updatedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// RecordRun appends a run to the log.
func (r *RankDB) RecordRun(ctx context.Context, run *model.RunRecord) error {
	if run == nil || run.ID == "" || run.SessionID == "" {
		return ErrInvalidRun
	}

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	query := `
	INSERT INTO runs (id, session_id, started_at, completed_at, state, total, failed, summary)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.SessionID,
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.CompletedAt),
		run.State,
		run.Total,
		run.Failed,
		string(summary),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs of a session, newest first. A limit
// of zero or less returns every run.
func (r *RankDB) ListRuns(ctx context.Context, sessionID string, limit int) ([]model.RunRecord, error) {
	query := `
	SELECT id, session_id, started_at, completed_at, state, total, failed, summary
	FROM runs
	WHERE session_id = ?
	ORDER BY started_at DESC, id
	`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var startedAt, completedAt string
		var summary sql.NullString
		if err := rows.Scan(&run.ID, &run.SessionID, &startedAt, &completedAt,
			&run.State, &run.Total, &run.Failed, &summary); err != nil {
			return nil, err
		}
		run.StartedAt = parseTimestamp(startedAt)
		run.CompletedAt = parseTimestamp(completedAt)
		if summary.Valid && summary.String != "" {
			if err := json.Unmarshal([]byte(summary.String), &run.Summary); err != nil {
				return nil, fmt.Errorf("failed to decode summary of run %s: %w", run.ID, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// storedTimestampFormat keeps fractional seconds so that runs started within
// the same second still sort correctly.
const storedTimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimestampFormat)
}

// timestampFormats lists the layouts accepted when reading timestamps back.
// Rows written by hand or by older builds may use SQLite's own format.
var timestampFormats = []string{
	storedTimestampFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no layout matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
