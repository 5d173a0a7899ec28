// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite ledger of analysis runs: when each run
// happened, which bibliography it covered, and what it cost. The ledger
// lives alongside the analysis cache and backs the history command.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "history.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run summarizes one invocation of the analyzer over a bibliography.
type Run struct {
	ID           int64
	StartedAt    time.Time
	BibFile      string
	Entries      int
	CacheHits    int
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// Entry is one assessed bibliography entry within a run.
type Entry struct {
	EntryKey string
	Citation string
	Total    float64
	Category string
	Cached   bool
}

// Open opens or creates the history database under dir, creating the
// schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			bib_file TEXT NOT NULL,
			entries INTEGER NOT NULL,
			cache_hits INTEGER NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			cost REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_entries (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			entry_key TEXT NOT NULL,
			citation TEXT,
			total REAL NOT NULL,
			category TEXT NOT NULL,
			cached INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_entries_run_id ON run_entries(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and its entries in one transaction and returns the
// run ID.
func (s *Store) Record(run Run, entries []Entry) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, bib_file, entries, cache_hits, input_tokens, output_tokens, cost)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339), run.BibFile, run.Entries,
		run.CacheHits, run.InputTokens, run.OutputTokens, run.Cost,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, e := range entries {
		if _, err := tx.Exec(
			`INSERT INTO run_entries (run_id, entry_key, citation, total, category, cached)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, e.EntryKey, e.Citation, e.Total, e.Category, e.Cached,
		); err != nil {
			return 0, fmt.Errorf("inserting run entry %s: %w", e.EntryKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, bib_file, entries, cache_hits, input_tokens, output_tokens, cost
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.BibFile, &r.Entries, &r.CacheHits,
			&r.InputTokens, &r.OutputTokens, &r.Cost); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns the assessed entries of one run.
func (s *Store) Entries(runID int64) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT entry_key, citation, total, category, cached
		 FROM run_entries WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EntryKey, &e.Citation, &e.Total, &e.Category, &e.Cached); err != nil {
			return nil, fmt.Errorf("scanning run entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
