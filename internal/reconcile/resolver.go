// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"github.com/stuartmcalpine/myADS/internal/match"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

// Candidate is an ambiguous co-authorship match awaiting a human
// decision.
type Candidate struct {
	Record   types.RemoteRecord
	Position int
}

// Prompter is the synchronous decision channel for the deep-check
// resolver and for removal confirmation. Implementations may be a
// terminal prompt, a scripted decision list, or anything else; the
// contract is one decision per record.
type Prompter interface {
	// ConfirmCandidate decides whether an ambiguous record belongs to
	// the author. Accepting promotes it exactly as a strong match would
	// be; rejecting memoizes the bibcode so it is never re-offered.
	ConfirmCandidate(a types.Author, c Candidate) (bool, error)

	// ConfirmRemoval decides whether a locally stored publication absent
	// from the fresh result set should be tombstoned. Declining leaves
	// it untouched.
	ConfirmRemoval(a types.Author, p types.Publication) (bool, error)
}

// Static is a scripted Prompter giving the same answer for every record,
// used for non-interactive runs and tests.
type Static struct {
	AcceptCandidates bool
	ConfirmRemovals  bool
}

func (s Static) ConfirmCandidate(types.Author, Candidate) (bool, error) {
	return s.AcceptCandidates, nil
}

func (s Static) ConfirmRemoval(types.Author, types.Publication) (bool, error) {
	return s.ConfirmRemovals, nil
}

// FilterCandidates classifies the deep-search records for an author and
// returns the ones requiring confirmation. Excluded up front: records
// already matched strongly this pass, memoized rejections, and ignored
// publications. A record the matcher classifies as a strong match that
// the primary query somehow missed is returned separately and joins the
// matched set without a prompt.
func FilterCandidates(
	a types.Author,
	records []types.RemoteRecord,
	knownStrong, rejected, ignored map[string]bool,
) (candidates []Candidate, strong []MatchedRecord) {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.Bibcode] || knownStrong[rec.Bibcode] || rejected[rec.Bibcode] || ignored[rec.Bibcode] {
			continue
		}
		seen[rec.Bibcode] = true

		switch m := match.Classify(a, rec, true); m.Kind {
		case match.StrongMatch:
			strong = append(strong, MatchedRecord{Record: rec, Position: m.Position})
		case match.Candidate:
			candidates = append(candidates, Candidate{Record: rec, Position: m.Position})
		}
	}
	return candidates, strong
}

// ResolveOutcome holds the decisions from one deep-check pass.
type ResolveOutcome struct {
	Accepted []MatchedRecord
	Rejected []types.RemoteRecord
}

// Resolve presents each candidate, one at a time, for an accept/reject
// decision. Decisions are independent; order affects only the prompt
// sequence. A prompter error aborts the remaining candidates; decisions
// already taken are returned alongside the error so they are not lost.
func Resolve(a types.Author, candidates []Candidate, prompter Prompter) (ResolveOutcome, error) {
	var out ResolveOutcome
	for _, c := range candidates {
		accept, err := prompter.ConfirmCandidate(a, c)
		if err != nil {
			return out, err
		}
		if accept {
			out.Accepted = append(out.Accepted, MatchedRecord{Record: c.Record, Position: c.Position})
		} else {
			out.Rejected = append(out.Rejected, c.Record)
		}
	}
	return out, nil
}

// ConfirmRemovals walks the missing set and collects removal decisions.
// Confirmed publications will be tombstoned; declined ones stay untouched
// and reappear in the next pass's snapshot.
func ConfirmRemovals(a types.Author, missing []types.Publication, prompter Prompter) (remove, keep []types.Publication, err error) {
	for _, p := range missing {
		confirmed, err := prompter.ConfirmRemoval(a, p)
		if err != nil {
			return remove, keep, err
		}
		if confirmed {
			remove = append(remove, p)
		} else {
			keep = append(keep, p)
		}
	}
	return remove, keep, nil
}
