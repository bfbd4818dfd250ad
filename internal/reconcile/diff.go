// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges freshly fetched remote records into the local
// snapshot. The merge is an explicit three-way diff (local snapshot
// versus remote result set versus memoized deep-check decisions), so
// every addition, citation-count change, and disappearance surfaces as a
// typed entry in the change report. Nothing is dropped silently and
// nothing is removed without explicit confirmation.
package reconcile

import (
	"github.com/stuartmcalpine/myADS/pkg/types"
)

// MatchedRecord is a remote record attributed to the tracked author, with
// the byline position the matcher inferred.
type MatchedRecord struct {
	Record   types.RemoteRecord
	Position int
}

// Update pairs a stored publication with fresh remote data whose citation
// count differs.
type Update struct {
	Publication types.Publication
	Record      types.RemoteRecord
	Position    int

	// Delta is remote minus stored. A negative delta signals an upstream
	// correction (e.g. a retraction) and is flagged distinctly, never
	// clamped or treated as an error.
	Delta int

	// Resurrected marks a previously tombstoned publication that is
	// matched again this pass.
	Resurrected bool
}

// Negative reports whether the update is an upstream citation-count
// decrease.
func (u Update) Negative() bool {
	return u.Delta < 0
}

// Report is the outcome of diffing one author's pass.
type Report struct {
	// Added are matched records with no stored publication.
	Added []MatchedRecord

	// Updated are stored publications whose remote citation count
	// changed (or that came back from a tombstone).
	Updated []Update

	// Refreshed are stored publications matched this pass with an
	// unchanged citation count. Their metadata is still rewritten but
	// they get no report entry of their own.
	Refreshed []Update

	// Missing are active stored publications absent from this pass's
	// matched set. They are candidates for removal, pending explicit
	// per-record confirmation.
	Missing []types.Publication

	// Filled in while decisions are applied.
	Removed  []types.Publication // confirmed removals (tombstoned)
	Kept     []types.Publication // declined removals, left untouched
	Accepted []MatchedRecord     // deep-check acceptances
	Rejected []types.RemoteRecord // deep-check rejections memoized this pass
}

// HasChanges reports whether the pass produced any report-worthy entries.
func (r *Report) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Updated) > 0 || len(r.Missing) > 0 ||
		len(r.Removed) > 0 || len(r.Rejected) > 0
}

// Diff classifies each local and remote record. local must contain the
// author's non-ignored publications, tombstoned ones included: a
// tombstoned publication that is matched again is reported as a
// resurrection rather than violating the (author, bibcode) uniqueness on
// insert. Ignored publications never participate, so they are neither
// refreshed nor reported missing.
//
// Running Diff twice against an unchanged remote set yields a second
// report with no Added, Updated, or Missing entries.
func Diff(local []types.Publication, matched []MatchedRecord) Report {
	byBibcode := make(map[string]types.Publication, len(local))
	for _, p := range local {
		byBibcode[p.Bibcode] = p
	}

	var report Report
	seen := make(map[string]bool, len(matched))

	for _, m := range matched {
		if seen[m.Record.Bibcode] {
			continue
		}
		seen[m.Record.Bibcode] = true

		p, ok := byBibcode[m.Record.Bibcode]
		if !ok {
			report.Added = append(report.Added, m)
			continue
		}

		u := Update{
			Publication: p,
			Record:      m.Record,
			Position:    m.Position,
			Delta:       m.Record.CitationCount - p.CitationCount,
			Resurrected: p.Removed,
		}
		if u.Delta != 0 || u.Resurrected {
			report.Updated = append(report.Updated, u)
		} else {
			report.Refreshed = append(report.Refreshed, u)
		}
	}

	for _, p := range local {
		if p.Removed || seen[p.Bibcode] {
			continue
		}
		report.Missing = append(report.Missing, p)
	}

	return report
}
