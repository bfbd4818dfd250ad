// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the local citation snapshot in SQLite: tracked
// authors, their publications with citation counters, citing papers,
// memoized deep-check rejections, and a small credentials area.
//
// The store assumes a single writer. Reconciliation writes for one author
// go through ApplyPass, which wraps them in a transaction so a failed pass
// leaves the snapshot either fully pre-pass or fully post-pass.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

// ErrNotFound is returned when a lookup by ID matches nothing.
var ErrNotFound = errors.New("store: not found")

// Store manages the snapshot SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			forename TEXT NOT NULL,
			surname TEXT NOT NULL,
			orcid TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			UNIQUE(forename, surname, orcid)
		)`,
		`CREATE TABLE IF NOT EXISTS publications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id INTEGER NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
			bibcode TEXT NOT NULL,
			title TEXT NOT NULL,
			pubdate TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			citation_count INTEGER NOT NULL DEFAULT 0,
			first_seen_count INTEGER NOT NULL DEFAULT 0,
			previous_count INTEGER NOT NULL DEFAULT 0,
			ignored INTEGER NOT NULL DEFAULT 0,
			ignore_reason TEXT NOT NULL DEFAULT '',
			removed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(author_id, bibcode)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_author ON publications(author_id)`,
		`CREATE TABLE IF NOT EXISTS citing_papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			publication_id INTEGER NOT NULL REFERENCES publications(id) ON DELETE CASCADE,
			bibcode TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '',
			pubdate TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			discovered_at TEXT NOT NULL,
			UNIQUE(publication_id, bibcode)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citing_publication ON citing_papers(publication_id)`,
		`CREATE TABLE IF NOT EXISTS rejected_candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id INTEGER NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
			bibcode TEXT NOT NULL,
			rejected_at TEXT NOT NULL,
			UNIQUE(author_id, bibcode)
		)`,
		`CREATE TABLE IF NOT EXISTS credentials (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// --- credentials ---

// TokenCredential is the credentials-table key for the ADS API token.
const TokenCredential = "ads-token"

// SetCredential stores or replaces a named credential.
func (s *Store) SetCredential(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		name, value, now())
	if err != nil {
		return fmt.Errorf("storing credential %s: %w", name, err)
	}
	return nil
}

// Credential returns a named credential, or "" when absent.
func (s *Store) Credential(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading credential %s: %w", name, err)
	}
	return value, nil
}

// --- authors ---

// AddAuthor registers a tracked author. Adding an identical
// (forename, surname, orcid) triple returns the existing author and
// reports created=false.
func (s *Store) AddAuthor(ctx context.Context, forename, surname, orcid string) (a types.Author, created bool, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, forename, surname, orcid, created_at FROM authors
		 WHERE forename = ? AND surname = ? AND orcid = ?`,
		forename, surname, orcid)
	if a, err = scanAuthor(row); err == nil {
		return a, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return types.Author{}, false, err
	}

	createdAt := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (forename, surname, orcid, created_at) VALUES (?, ?, ?, ?)`,
		forename, surname, orcid, createdAt)
	if err != nil {
		return types.Author{}, false, fmt.Errorf("adding author: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Author{}, false, fmt.Errorf("adding author: %w", err)
	}

	return types.Author{
		ID:        id,
		Forename:  forename,
		Surname:   surname,
		ORCID:     orcid,
		CreatedAt: parseTime(createdAt),
	}, true, nil
}

// RemoveAuthor deletes an author. Publications, citing papers, and
// rejections cascade.
func (s *Store) RemoveAuthor(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing author %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("author %d: %w", id, ErrNotFound)
	}
	return nil
}

// Author returns one tracked author by ID.
func (s *Store) Author(ctx context.Context, id int64) (types.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, forename, surname, orcid, created_at FROM authors WHERE id = ?`, id)
	a, err := scanAuthor(row)
	if errors.Is(err, ErrNotFound) {
		return types.Author{}, fmt.Errorf("author %d: %w", id, ErrNotFound)
	}
	return a, err
}

// Authors returns all tracked authors in ID order.
func (s *Store) Authors(ctx context.Context) ([]types.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, forename, surname, orcid, created_at FROM authors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	defer rows.Close()

	var authors []types.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row rowScanner) (types.Author, error) {
	var a types.Author
	var createdAt string
	err := row.Scan(&a.ID, &a.Forename, &a.Surname, &a.ORCID, &createdAt)
	if err == sql.ErrNoRows {
		return types.Author{}, ErrNotFound
	}
	if err != nil {
		return types.Author{}, fmt.Errorf("scanning author: %w", err)
	}
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

// Timestamps are stored as RFC 3339 strings.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
