// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

const publicationColumns = `id, author_id, bibcode, title, pubdate, authors, position,
	citation_count, first_seen_count, previous_count,
	ignored, ignore_reason, removed, created_at, updated_at`

// ListOptions selects which publications to return. The zero value means
// active publications only: not ignored, not tombstoned.
type ListOptions struct {
	IncludeIgnored bool
	IncludeRemoved bool
}

// Publications returns an author's publications ordered by citation count
// descending.
func (s *Store) Publications(ctx context.Context, authorID int64, opts ListOptions) ([]types.Publication, error) {
	q := `SELECT ` + publicationColumns + ` FROM publications WHERE author_id = ?`
	if !opts.IncludeIgnored {
		q += ` AND ignored = 0`
	}
	if !opts.IncludeRemoved {
		q += ` AND removed = 0`
	}
	q += ` ORDER BY citation_count DESC, bibcode`

	rows, err := s.db.QueryContext(ctx, q, authorID)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()
	return collectPublications(rows)
}

// PublicationByID returns one publication.
func (s *Store) PublicationByID(ctx context.Context, id int64) (types.Publication, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE id = ?`, id)
	p, err := scanPublication(row)
	if errors.Is(err, ErrNotFound) {
		return types.Publication{}, fmt.Errorf("publication %d: %w", id, ErrNotFound)
	}
	return p, err
}

// PublicationCount returns the number of active publications for an author.
func (s *Store) PublicationCount(ctx context.Context, authorID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM publications WHERE author_id = ? AND ignored = 0 AND removed = 0`,
		authorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting publications: %w", err)
	}
	return n, nil
}

// --- ignore markers ---

// Ignore marks a publication as ignored with an optional reason. The row
// stays in the snapshot but is excluded from reconciliation and metrics.
func (s *Store) Ignore(ctx context.Context, pubID int64, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE publications SET ignored = 1, ignore_reason = ?, updated_at = ? WHERE id = ?`,
		reason, now(), pubID)
	if err != nil {
		return fmt.Errorf("ignoring publication %d: %w", pubID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("publication %d: %w", pubID, ErrNotFound)
	}
	return nil
}

// Unignore clears the ignore marker.
func (s *Store) Unignore(ctx context.Context, pubID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE publications SET ignored = 0, ignore_reason = '', updated_at = ? WHERE id = ?`,
		now(), pubID)
	if err != nil {
		return fmt.Errorf("unignoring publication %d: %w", pubID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("publication %d: %w", pubID, ErrNotFound)
	}
	return nil
}

// IgnoredPublications lists ignored publications, scoped to one author
// when authorID is non-zero.
func (s *Store) IgnoredPublications(ctx context.Context, authorID int64) ([]types.Publication, error) {
	q := `SELECT ` + publicationColumns + ` FROM publications WHERE ignored = 1`
	var args []any
	if authorID != 0 {
		q += ` AND author_id = ?`
		args = append(args, authorID)
	}
	q += ` ORDER BY author_id, bibcode`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ignored publications: %w", err)
	}
	defer rows.Close()
	return collectPublications(rows)
}

// --- rejected candidates ---

// RejectedCandidates lists memoized rejections, scoped to one author when
// authorID is non-zero.
func (s *Store) RejectedCandidates(ctx context.Context, authorID int64) ([]types.RejectedCandidate, error) {
	q := `SELECT id, author_id, bibcode, rejected_at FROM rejected_candidates`
	var args []any
	if authorID != 0 {
		q += ` WHERE author_id = ?`
		args = append(args, authorID)
	}
	q += ` ORDER BY author_id, bibcode`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rejected candidates: %w", err)
	}
	defer rows.Close()

	var rejected []types.RejectedCandidate
	for rows.Next() {
		var r types.RejectedCandidate
		var rejectedAt string
		if err := rows.Scan(&r.ID, &r.AuthorID, &r.Bibcode, &rejectedAt); err != nil {
			return nil, fmt.Errorf("scanning rejected candidate: %w", err)
		}
		r.RejectedAt = parseTime(rejectedAt)
		rejected = append(rejected, r)
	}
	return rejected, rows.Err()
}

// RejectedBibcodes returns the set of rejected bibcodes for one author.
func (s *Store) RejectedBibcodes(ctx context.Context, authorID int64) (map[string]bool, error) {
	rejected, err := s.RejectedCandidates(ctx, authorID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(rejected))
	for _, r := range rejected {
		set[r.Bibcode] = true
	}
	return set, nil
}

// ClearRejected deletes rejection memos, making those records eligible
// for re-offer on the next deep pass. A zero authorID clears all authors.
func (s *Store) ClearRejected(ctx context.Context, authorID int64) (int, error) {
	q := `DELETE FROM rejected_candidates`
	var args []any
	if authorID != 0 {
		q += ` WHERE author_id = ?`
		args = append(args, authorID)
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("clearing rejected candidates: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// --- citing papers ---

// CitingPapers returns the known citing papers for one publication.
func (s *Store) CitingPapers(ctx context.Context, pubID int64) ([]types.CitingPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, publication_id, bibcode, title, authors, pubdate, doi, discovered_at
		 FROM citing_papers WHERE publication_id = ? ORDER BY bibcode`, pubID)
	if err != nil {
		return nil, fmt.Errorf("listing citing papers: %w", err)
	}
	defer rows.Close()
	return collectCitingPapers(rows)
}

// CitingByAuthor returns all citing papers for an author's publications,
// keyed by publication ID. Metrics use this to compute recent-window
// counts in one pass.
func (s *Store) CitingByAuthor(ctx context.Context, authorID int64) (map[int64][]types.CitingPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.publication_id, c.bibcode, c.title, c.authors, c.pubdate, c.doi, c.discovered_at
		 FROM citing_papers c
		 JOIN publications p ON p.id = c.publication_id
		 WHERE p.author_id = ?`, authorID)
	if err != nil {
		return nil, fmt.Errorf("listing citing papers: %w", err)
	}
	defer rows.Close()

	papers, err := collectCitingPapers(rows)
	if err != nil {
		return nil, err
	}
	byPub := make(map[int64][]types.CitingPaper)
	for _, c := range papers {
		byPub[c.PublicationID] = append(byPub[c.PublicationID], c)
	}
	return byPub, nil
}

// --- scan helpers ---

func scanPublication(row rowScanner) (types.Publication, error) {
	var p types.Publication
	var createdAt, updatedAt string
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Bibcode, &p.Title, &p.PubDate, &p.Authors, &p.Position,
		&p.CitationCount, &p.FirstSeenCount, &p.PreviousCount,
		&p.Ignored, &p.IgnoreReason, &p.Removed, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return types.Publication{}, ErrNotFound
	}
	if err != nil {
		return types.Publication{}, fmt.Errorf("scanning publication: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func collectPublications(rows *sql.Rows) ([]types.Publication, error) {
	var pubs []types.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}

func collectCitingPapers(rows *sql.Rows) ([]types.CitingPaper, error) {
	var papers []types.CitingPaper
	for rows.Next() {
		var c types.CitingPaper
		var discoveredAt string
		if err := rows.Scan(&c.ID, &c.PublicationID, &c.Bibcode, &c.Title,
			&c.Authors, &c.PubDate, &c.DOI, &discoveredAt); err != nil {
			return nil, fmt.Errorf("scanning citing paper: %w", err)
		}
		c.DiscoveredAt = parseTime(discoveredAt)
		papers = append(papers, c)
	}
	return papers, rows.Err()
}
