// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

// Snapshot is the export shape of the tracked database: every author with
// the full publication state, tombstones and ignore markers included.
type Snapshot struct {
	ExportedAt time.Time      `json:"exported_at" yaml:"exported_at"`
	Authors    []ExportAuthor `json:"authors" yaml:"authors"`
}

type ExportAuthor struct {
	Forename     string              `json:"forename" yaml:"forename"`
	Surname      string              `json:"surname" yaml:"surname"`
	ORCID        string              `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	Publications []ExportPublication `json:"publications" yaml:"publications"`
}

type ExportPublication struct {
	Bibcode        string         `json:"bibcode" yaml:"bibcode"`
	Title          string         `json:"title" yaml:"title"`
	PubDate        string         `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`
	Authors        string         `json:"authors,omitempty" yaml:"authors,omitempty"`
	Position       int            `json:"position,omitempty" yaml:"position,omitempty"`
	CitationCount  int            `json:"citation_count" yaml:"citation_count"`
	FirstSeenCount int            `json:"first_seen_count" yaml:"first_seen_count"`
	PreviousCount  int            `json:"previous_count" yaml:"previous_count"`
	Ignored        bool           `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	IgnoreReason   string         `json:"ignore_reason,omitempty" yaml:"ignore_reason,omitempty"`
	Removed        bool           `json:"removed,omitempty" yaml:"removed,omitempty"`
	CitingPapers   []ExportCiting `json:"citing_papers,omitempty" yaml:"citing_papers,omitempty"`
}

type ExportCiting struct {
	Bibcode      string    `json:"bibcode" yaml:"bibcode"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	PubDate      string    `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`
	DOI          string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at" yaml:"discovered_at"`
}

// ExportOf assembles one author's export entry from the stored rows.
// citing maps publication ID to that publication's citing papers.
func ExportOf(a types.Author, pubs []types.Publication, citing map[int64][]types.CitingPaper) ExportAuthor {
	ea := ExportAuthor{Forename: a.Forename, Surname: a.Surname, ORCID: a.ORCID}
	for _, p := range pubs {
		ep := ExportPublication{
			Bibcode:        p.Bibcode,
			Title:          p.Title,
			PubDate:        p.PubDate,
			Authors:        p.Authors,
			Position:       p.Position,
			CitationCount:  p.CitationCount,
			FirstSeenCount: p.FirstSeenCount,
			PreviousCount:  p.PreviousCount,
			Ignored:        p.Ignored,
			IgnoreReason:   p.IgnoreReason,
			Removed:        p.Removed,
		}
		for _, c := range citing[p.ID] {
			ep.CitingPapers = append(ep.CitingPapers, ExportCiting{
				Bibcode:      c.Bibcode,
				Title:        c.Title,
				PubDate:      c.PubDate,
				DOI:          c.DOI,
				DiscoveredAt: c.DiscoveredAt,
			})
		}
		ea.Publications = append(ea.Publications, ep)
	}
	return ea
}

// WriteSnapshot serializes the snapshot. The table format has no
// meaningful rendering for a full export and is rejected.
func WriteSnapshot(w io.Writer, snap Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, snap)
	case FormatYAML:
		return writeYAML(w, snap)
	default:
		return fmt.Errorf("export supports json or yaml, not %q", string(format))
	}
}
