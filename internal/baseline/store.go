// Package baseline persists accepted diagnostics so that existing debt can be
// tolerated while new violations still fail the check.
package baseline

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"docstyle/internal/diag"
	"docstyle/internal/logging"
)

// Store is the SQLite-backed baseline at .docstyle/baseline.db.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Entry is one accepted violation, keyed by its content fingerprint.
type Entry struct {
	Fingerprint string
	RuleID      string
	Path        string
	Message     string
	AcceptedAt  time.Time
}

// RunRecord summarizes one recorded check run.
type RunRecord struct {
	ID          string
	StartedAt   time.Time
	Files       int
	Diagnostics int
	Suppressed  int
}

// Path returns the baseline database location for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".docstyle", "baseline.db")
}

// Open opens or creates the baseline store at the given path.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryBaseline, "Open")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create baseline directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.BaselineDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.BaselineDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.BaselineDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Baseline("Baseline store ready at %s", path)
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accepted (
		fingerprint TEXT PRIMARY KEY,
		rule_id     TEXT NOT NULL,
		path        TEXT NOT NULL,
		message     TEXT NOT NULL,
		accepted_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_accepted_path ON accepted(path);
	CREATE INDEX IF NOT EXISTS idx_accepted_rule ON accepted(rule_id);

	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		started_at  DATETIME NOT NULL,
		files       INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		suppressed  INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize baseline schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Update replaces the accepted set with the given diagnostics.
func (s *Store) Update(ds []diag.Diagnostic) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryBaseline, "Update")
	defer timer.Stop()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin baseline update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM accepted"); err != nil {
		return 0, fmt.Errorf("failed to clear baseline: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO accepted
		(fingerprint, rule_id, path, message, accepted_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare baseline insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, d := range ds {
		if _, err := stmt.Exec(d.Fingerprint, d.RuleID, d.Path, d.Message); err != nil {
			return 0, fmt.Errorf("failed to insert baseline entry: %w", err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit baseline update: %w", err)
	}

	logging.Baseline("Baseline updated with %d accepted violations", n)
	return n, nil
}

// Accepted returns the fingerprints of every accepted violation.
func (s *Store) Accepted() (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT fingerprint FROM accepted")
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	defer rows.Close()

	accepted := make(map[string]bool)
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan baseline row: %w", err)
		}
		accepted[fp] = true
	}
	return accepted, rows.Err()
}

// Entries returns every accepted violation, newest first.
func (s *Store) Entries() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT fingerprint, rule_id, path, message, accepted_at
		FROM accepted ORDER BY accepted_at DESC, path, rule_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list baseline entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Fingerprint, &e.RuleID, &e.Path, &e.Message, &e.AcceptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan baseline entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Filter splits diagnostics into new ones and ones covered by the baseline.
func (s *Store) Filter(ds []diag.Diagnostic) (fresh, suppressed []diag.Diagnostic, err error) {
	accepted, err := s.Accepted()
	if err != nil {
		return nil, nil, err
	}
	for _, d := range ds {
		if accepted[d.Fingerprint] {
			suppressed = append(suppressed, d)
		} else {
			fresh = append(fresh, d)
		}
	}
	logging.BaselineDebug("Baseline filter: %d fresh, %d suppressed", len(fresh), len(suppressed))
	return fresh, suppressed, nil
}

// RecordRun stores a history row for one check run and returns its ID.
func (s *Store) RecordRun(files, diagnostics, suppressed int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	_, err := s.db.Exec(`INSERT INTO runs (id, started_at, files, diagnostics, suppressed)
		VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), files, diagnostics, suppressed)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// Runs returns the most recent run records, newest first.
func (s *Store) Runs(limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, started_at, files, diagnostics, suppressed
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Files, &r.Diagnostics, &r.Suppressed); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
