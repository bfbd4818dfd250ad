// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

// Pass is the write surface for one author's reconciliation pass. All
// writes share a transaction: an error from apply rolls everything back
// and the snapshot stays fully pre-pass.
type Pass struct {
	tx  *sql.Tx
	now time.Time
}

// ApplyPass runs apply inside a transaction. On error the transaction is
// rolled back and the error returned, so the caller can report the author
// as not updated and continue with remaining authors.
func (s *Store) ApplyPass(ctx context.Context, apply func(p *Pass) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning pass transaction: %w", err)
	}
	defer tx.Rollback()

	p := &Pass{tx: tx, now: time.Now().UTC()}
	if err := apply(p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pass: %w", err)
	}
	return nil
}

func (p *Pass) timestamp() string {
	return p.now.Format(time.RFC3339Nano)
}

// InsertPublication creates a new publication seeded from a remote
// record. The citation counters start with first-seen = previous =
// current, so the first pass reports no delta.
func (p *Pass) InsertPublication(ctx context.Context, authorID int64, rec types.RemoteRecord, position int) (int64, error) {
	ts := p.timestamp()
	res, err := p.tx.ExecContext(ctx,
		`INSERT INTO publications
			(author_id, bibcode, title, pubdate, authors, position,
			 citation_count, first_seen_count, previous_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		authorID, rec.Bibcode, rec.Title, rec.PubDate, rec.JoinedAuthors(), position,
		rec.CitationCount, rec.CitationCount, rec.CitationCount, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("inserting publication %s: %w", rec.Bibcode, err)
	}
	return res.LastInsertId()
}

// UpdatePublication refreshes a stored publication from a remote record.
// The stored citation count moves to previous_count, preserving the
// history needed for delta reporting. A matched record is by definition
// present upstream, so any tombstone is cleared; the ignore flag is left
// untouched.
func (p *Pass) UpdatePublication(ctx context.Context, pubID int64, rec types.RemoteRecord, position int) error {
	_, err := p.tx.ExecContext(ctx,
		`UPDATE publications SET
			title = ?, pubdate = ?, authors = ?, position = ?,
			previous_count = citation_count, citation_count = ?, removed = 0, updated_at = ?
		 WHERE id = ?`,
		rec.Title, rec.PubDate, rec.JoinedAuthors(), position,
		rec.CitationCount, p.timestamp(), pubID)
	if err != nil {
		return fmt.Errorf("updating publication %d: %w", pubID, err)
	}
	return nil
}

// Tombstone marks a publication as removed after explicit confirmation.
// The row is kept for auditability.
func (p *Pass) Tombstone(ctx context.Context, pubID int64) error {
	_, err := p.tx.ExecContext(ctx,
		`UPDATE publications SET removed = 1, updated_at = ? WHERE id = ?`,
		p.timestamp(), pubID)
	if err != nil {
		return fmt.Errorf("tombstoning publication %d: %w", pubID, err)
	}
	return nil
}

// RecordRejection memoizes a deep-check rejection. Re-rejecting the same
// (author, bibcode) pair is a no-op.
func (p *Pass) RecordRejection(ctx context.Context, authorID int64, bibcode string) error {
	_, err := p.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO rejected_candidates (author_id, bibcode, rejected_at)
		 VALUES (?, ?, ?)`,
		authorID, bibcode, p.timestamp())
	if err != nil {
		return fmt.Errorf("recording rejection of %s: %w", bibcode, err)
	}
	return nil
}

// InsertCitingPapers stores newly discovered citing papers for a
// publication. Already-known (publication, bibcode) pairs are skipped.
// Returns how many rows were actually inserted.
func (p *Pass) InsertCitingPapers(ctx context.Context, pubID int64, papers []types.CitingPaper) (int, error) {
	inserted := 0
	ts := p.timestamp()
	for _, c := range papers {
		res, err := p.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO citing_papers
				(publication_id, bibcode, title, authors, pubdate, doi, discovered_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			pubID, c.Bibcode, c.Title, c.Authors, c.PubDate, c.DOI, ts)
		if err != nil {
			return inserted, fmt.Errorf("inserting citing paper %s: %w", c.Bibcode, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}
