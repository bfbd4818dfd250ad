// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"context"
	"fmt"
	"io"

	"github.com/stuartmcalpine/myADS/internal/ads"
	"github.com/stuartmcalpine/myADS/internal/match"
	"github.com/stuartmcalpine/myADS/internal/store"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

// Searcher is the remote query surface the engine depends on. *ads.Client
// implements it; tests substitute a stub.
type Searcher interface {
	Search(ctx context.Context, q, sort string) (*ads.Result, error)
	Citations(ctx context.Context, bibcode string) (*ads.Result, error)
}

// Options controls one reconciliation pass.
type Options struct {
	// Deep enables the interactive candidate-confirmation workflow over
	// any-byline-position name matches.
	Deep bool

	// SkipCitations skips the per-publication citing-paper refresh,
	// saving one API call per publication.
	SkipCitations bool
}

// Outcome is the result of one author's pass.
type Outcome struct {
	Author types.Author
	Report Report

	// NewCites maps publication bibcode to citing papers first seen this
	// pass.
	NewCites map[string][]types.CitingPaper

	// Truncated is set when the remote row limit cut off the result set.
	Truncated bool
}

// Run performs one reconciliation pass for a single author: fetch, match,
// optionally deep-resolve, diff, confirm removals, refresh citing papers,
// and apply every write in one transaction. A remote failure means "no
// data this pass": the snapshot is left exactly as it was and the error
// is returned for the caller to report.
//
// Progress and warnings go to w.
func Run(ctx context.Context, st *store.Store, client Searcher, a types.Author, prompter Prompter, opts Options, w io.Writer) (*Outcome, error) {
	locals, err := st.Publications(ctx, a.ID, store.ListOptions{IncludeRemoved: true})
	if err != nil {
		return nil, err
	}

	ignoredPubs, err := st.IgnoredPublications(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	ignored := make(map[string]bool, len(ignoredPubs))
	for _, p := range ignoredPubs {
		ignored[p.Bibcode] = true
	}

	primary, err := client.Search(ctx, ads.AuthorQuery(a, true), "pubdate desc")
	if err != nil {
		return nil, fmt.Errorf("fetching publications for %s: %w", a.Name(), err)
	}
	outcome := &Outcome{Author: a, Truncated: primary.Truncated()}
	if outcome.Truncated {
		fmt.Fprintf(w, "warning: result set truncated for %s (%d found)\n", a.Name(), primary.NumFound)
	}

	// Ignored publications are frozen: matched or not, they are neither
	// refreshed nor offered nor reported missing.
	var matched []MatchedRecord
	for _, rec := range primary.Records {
		if ignored[rec.Bibcode] {
			continue
		}
		if m := match.Classify(a, rec, false); m.Kind == match.StrongMatch {
			matched = append(matched, MatchedRecord{Record: rec, Position: m.Position})
		}
	}

	if opts.Deep {
		matched, err = deepResolve(ctx, st, client, a, matched, ignored, &outcome.Report, prompter, w)
		if err != nil {
			return nil, err
		}
	}

	report := Diff(locals, matched)
	report.Accepted = outcome.Report.Accepted
	report.Rejected = outcome.Report.Rejected
	outcome.Report = report

	remove, keep, err := ConfirmRemovals(a, report.Missing, prompter)
	if err != nil {
		return nil, err
	}
	outcome.Report.Removed = remove
	outcome.Report.Kept = keep

	if !opts.SkipCitations {
		if err := fetchNewCites(ctx, st, client, outcome, w); err != nil {
			return nil, err
		}
	}

	if err := applyOutcome(ctx, st, a, outcome); err != nil {
		return nil, fmt.Errorf("applying pass for %s: %w", a.Name(), err)
	}
	return outcome, nil
}

// deepResolve runs the any-position query, filters candidates against
// memoized rejections, and drives the interactive accept/reject loop.
// Accepted candidates join the matched set. A deep query failure is
// downgraded to a warning: the primary pass still proceeds.
func deepResolve(
	ctx context.Context,
	st *store.Store,
	client Searcher,
	a types.Author,
	matched []MatchedRecord,
	ignored map[string]bool,
	report *Report,
	prompter Prompter,
	w io.Writer,
) ([]MatchedRecord, error) {
	deep, err := client.Search(ctx, ads.AuthorQuery(a, false), "pubdate desc")
	if err != nil {
		fmt.Fprintf(w, "warning: deep check skipped for %s: %v\n", a.Name(), err)
		return matched, nil
	}

	rejected, err := st.RejectedBibcodes(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	knownStrong := make(map[string]bool, len(matched))
	for _, m := range matched {
		knownStrong[m.Record.Bibcode] = true
	}

	candidates, extraStrong := FilterCandidates(a, deep.Records, knownStrong, rejected, ignored)
	matched = append(matched, extraStrong...)

	if len(candidates) == 0 {
		fmt.Fprintf(w, "no new candidate papers for %s\n", a.Name())
		return matched, nil
	}
	fmt.Fprintf(w, "%d candidate paper(s) for %s need confirmation\n", len(candidates), a.Name())

	outcome, err := Resolve(a, candidates, prompter)
	if err != nil {
		return nil, err
	}
	report.Accepted = outcome.Accepted
	report.Rejected = outcome.Rejected
	return append(matched, outcome.Accepted...), nil
}

// fetchNewCites queries the citing papers for every publication that
// survives this pass and keeps the ones not yet known locally. A failed
// citations query only skips that one publication.
func fetchNewCites(ctx context.Context, st *store.Store, client Searcher, outcome *Outcome, w io.Writer) error {
	outcome.NewCites = make(map[string][]types.CitingPaper)

	known := func(pubID int64) (map[string]bool, error) {
		papers, err := st.CitingPapers(ctx, pubID)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool, len(papers))
		for _, c := range papers {
			set[c.Bibcode] = true
		}
		return set, nil
	}

	fetch := func(bibcode string, knownSet map[string]bool) {
		res, err := client.Citations(ctx, bibcode)
		if err != nil {
			fmt.Fprintf(w, "warning: citations query failed for %s: %v\n", bibcode, err)
			return
		}
		var fresh []types.CitingPaper
		for _, rec := range res.Records {
			if knownSet[rec.Bibcode] {
				continue
			}
			fresh = append(fresh, citingFromRecord(rec))
		}
		if len(fresh) > 0 {
			outcome.NewCites[bibcode] = fresh
		}
	}

	for _, m := range outcome.Report.Added {
		fetch(m.Record.Bibcode, nil)
	}
	for _, set := range [][]Update{outcome.Report.Updated, outcome.Report.Refreshed} {
		for _, u := range set {
			knownSet, err := known(u.Publication.ID)
			if err != nil {
				return err
			}
			fetch(u.Publication.Bibcode, knownSet)
		}
	}
	return nil
}

// applyOutcome writes the pass in one transaction.
func applyOutcome(ctx context.Context, st *store.Store, a types.Author, outcome *Outcome) error {
	return st.ApplyPass(ctx, func(p *store.Pass) error {
		for _, m := range outcome.Report.Added {
			pubID, err := p.InsertPublication(ctx, a.ID, m.Record, m.Position)
			if err != nil {
				return err
			}
			if cites := outcome.NewCites[m.Record.Bibcode]; len(cites) > 0 {
				if _, err := p.InsertCitingPapers(ctx, pubID, cites); err != nil {
					return err
				}
			}
		}

		for _, set := range [][]Update{outcome.Report.Updated, outcome.Report.Refreshed} {
			for _, u := range set {
				if err := p.UpdatePublication(ctx, u.Publication.ID, u.Record, u.Position); err != nil {
					return err
				}
				if cites := outcome.NewCites[u.Publication.Bibcode]; len(cites) > 0 {
					if _, err := p.InsertCitingPapers(ctx, u.Publication.ID, cites); err != nil {
						return err
					}
				}
			}
		}

		for _, rec := range outcome.Report.Rejected {
			if err := p.RecordRejection(ctx, a.ID, rec.Bibcode); err != nil {
				return err
			}
		}

		for _, pub := range outcome.Report.Removed {
			if err := p.Tombstone(ctx, pub.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func citingFromRecord(rec types.RemoteRecord) types.CitingPaper {
	return types.CitingPaper{
		Bibcode: rec.Bibcode,
		Title:   rec.Title,
		Authors: rec.JoinedAuthors(),
		PubDate: rec.PubDate,
		DOI:     rec.DOI,
	}
}
