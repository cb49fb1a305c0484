package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists preferences in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex // serializes Update within the process
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// OpenSQLite opens (or creates) the database at path and ensures the
// preference tables exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS selected_categories (
			category_id TEXT PRIMARY KEY,
			selected_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS custom_terms (
			position   INTEGER PRIMARY KEY,
			term       TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create prefs tables: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the stored preferences. An empty database yields empty
// preferences.
func (s *SQLiteStore) Load(ctx context.Context) (Preferences, error) {
	return load(ctx, s.db)
}

// Save replaces the stored preferences with the cleaned form of p in one
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, p Preferences) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if err := save(ctx, tx, p.Clean()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prefs: %w", err)
	}
	return nil
}

// Update reads, edits and writes the preferences inside one transaction.
// The transaction starts with a write so another process cannot slip a
// save between the read and the write.
func (s *SQLiteStore) Update(ctx context.Context, fn func(p *Preferences) error) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Preferences{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	// Take the write lock up front.
	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_terms WHERE 0`); err != nil {
		return Preferences{}, fmt.Errorf("lock prefs: %w", err)
	}
	p, err := load(ctx, tx)
	if err != nil {
		return Preferences{}, err
	}
	if err := fn(&p); err != nil {
		return Preferences{}, err
	}
	p = p.Clean()
	if err := save(ctx, tx, p); err != nil {
		return Preferences{}, err
	}
	if err := tx.Commit(); err != nil {
		return Preferences{}, fmt.Errorf("commit prefs: %w", err)
	}
	return p, nil
}

func load(ctx context.Context, q querier) (Preferences, error) {
	p := Preferences{SelectedIDs: []string{}, CustomTerms: []string{}}

	rows, err := q.QueryContext(ctx, `SELECT category_id FROM selected_categories ORDER BY category_id`)
	if err != nil {
		return Preferences{}, fmt.Errorf("load selected categories: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return Preferences{}, fmt.Errorf("scan category: %w", err)
		}
		p.SelectedIDs = append(p.SelectedIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Preferences{}, fmt.Errorf("load selected categories: %w", err)
	}

	rows, err = q.QueryContext(ctx, `SELECT term FROM custom_terms ORDER BY position`)
	if err != nil {
		return Preferences{}, fmt.Errorf("load custom terms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return Preferences{}, fmt.Errorf("scan custom term: %w", err)
		}
		p.CustomTerms = append(p.CustomTerms, term)
	}
	return p, rows.Err()
}

// save replaces both tables with p, which must already be clean.
func save(ctx context.Context, q querier, p Preferences) error {
	now := time.Now().Unix()

	if _, err := q.ExecContext(ctx, `DELETE FROM selected_categories`); err != nil {
		return fmt.Errorf("clear selected categories: %w", err)
	}
	for _, id := range p.SelectedIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO selected_categories (category_id, selected_at) VALUES (?, ?)`, id, now); err != nil {
			return fmt.Errorf("save category %s: %w", id, err)
		}
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM custom_terms`); err != nil {
		return fmt.Errorf("clear custom terms: %w", err)
	}
	for i, term := range p.CustomTerms {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO custom_terms (position, term, updated_at) VALUES (?, ?, ?)`, i, term, now); err != nil {
			return fmt.Errorf("save custom term %q: %w", term, err)
		}
	}
	return nil
}
