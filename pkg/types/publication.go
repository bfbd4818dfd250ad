// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// Publication is a bibliographic record attributed to a tracked author.
// The (AuthorID, Bibcode) pair is unique and the bibcode never changes once
// stored: a semantically identical work returned under a different bibcode
// is a distinct record.
type Publication struct {
	ID       int64  `json:"id" yaml:"id"`
	AuthorID int64  `json:"author_id" yaml:"author_id"`
	Bibcode  string `json:"bibcode" yaml:"bibcode"`
	Title    string `json:"title" yaml:"title"`

	// PubDate is the raw publication date string from the remote source,
	// e.g. "2020-03-00". Month and day may be zero.
	PubDate string `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`

	// Authors is the byline snapshot at last reconciliation, "; "-joined.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Position is the matched ordinal of the tracked author within the
	// byline (1-based). Zero means unknown.
	Position int `json:"position,omitempty" yaml:"position,omitempty"`

	// CitationCount is the total as of the last reconciliation pass.
	// FirstSeenCount and PreviousCount preserve enough history to compute
	// deltas between passes.
	CitationCount  int `json:"citation_count" yaml:"citation_count"`
	FirstSeenCount int `json:"first_seen_count" yaml:"first_seen_count"`
	PreviousCount  int `json:"previous_count" yaml:"previous_count"`

	// Ignored publications stay in the snapshot but are excluded from
	// metrics and reconciliation unless explicitly requested.
	Ignored      bool   `json:"ignored" yaml:"ignored"`
	IgnoreReason string `json:"ignore_reason,omitempty" yaml:"ignore_reason,omitempty"`

	// Removed marks a tombstoned publication. Removal always goes through
	// explicit confirmation; rows are never deleted outright.
	Removed bool `json:"removed" yaml:"removed"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// AuthorList splits the stored byline snapshot into individual names.
func (p Publication) AuthorList() []string {
	if p.Authors == "" {
		return nil
	}
	parts := strings.Split(p.Authors, ";")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// CitingPaper is one paper known to cite a tracked publication. Rows
// accumulate across passes; DiscoveredAt records when the citation first
// appeared locally and drives the recent-citation window.
type CitingPaper struct {
	ID            int64     `json:"id" yaml:"id"`
	PublicationID int64     `json:"publication_id" yaml:"publication_id"`
	Bibcode       string    `json:"bibcode" yaml:"bibcode"`
	Title         string    `json:"title" yaml:"title"`
	Authors       string    `json:"authors,omitempty" yaml:"authors,omitempty"`
	PubDate       string    `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`
	DOI           string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	DiscoveredAt  time.Time `json:"discovered_at" yaml:"discovered_at"`
}

// RejectedCandidate memoizes a negative deep-check decision. Once
// recorded, the (AuthorID, Bibcode) pair is never re-offered until an
// explicit clear for that author.
type RejectedCandidate struct {
	ID         int64     `json:"id" yaml:"id"`
	AuthorID   int64     `json:"author_id" yaml:"author_id"`
	Bibcode    string    `json:"bibcode" yaml:"bibcode"`
	RejectedAt time.Time `json:"rejected_at" yaml:"rejected_at"`
}
