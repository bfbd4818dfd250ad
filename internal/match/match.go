// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match decides whether a remote record belongs to a tracked
// author, and at which byline position.
//
// ORCID is the only non-ambiguous signal. Name matching is trusted only at
// first-author position: bylines are long and names collide, so a name
// match anywhere else is classified as a candidate and must go through
// interactive confirmation before it can become a publication.
package match

import (
	"strings"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

// Kind classifies a remote record against a tracked author.
type Kind int

const (
	NoMatch Kind = iota
	Candidate
	StrongMatch
)

// String returns the classification name.
func (k Kind) String() string {
	switch k {
	case StrongMatch:
		return "strong-match"
	case Candidate:
		return "candidate"
	default:
		return "no-match"
	}
}

// Match is the result of classifying one record. Position is the 1-based
// byline ordinal of the tracked author, zero when unmatched.
type Match struct {
	Kind     Kind
	Position int
}

// Classify applies the matching rules in order:
//
//  1. The author's ORCID appears on a byline entry: strong match at that
//     ordinal, regardless of name-string formatting.
//  2. The first-listed byline name token-matches the author's name:
//     strong match at position 1.
//  3. The name token-matches some other byline position and deep mode is
//     active: candidate at that ordinal.
//  4. Otherwise: no match.
func Classify(a types.Author, rec types.RemoteRecord, deep bool) Match {
	if a.ORCID != "" {
		for i, entry := range rec.AuthorList {
			if entry.ORCID == a.ORCID {
				return Match{Kind: StrongMatch, Position: i + 1}
			}
		}
	}

	for i, entry := range rec.AuthorList {
		if !NameMatches(a, entry.Name) {
			continue
		}
		if i == 0 {
			return Match{Kind: StrongMatch, Position: 1}
		}
		if deep {
			return Match{Kind: Candidate, Position: i + 1}
		}
		return Match{Kind: NoMatch}
	}

	return Match{Kind: NoMatch}
}

// NameMatches reports whether a byline name in "Surname, Forename" form
// token-matches the tracked author, case-insensitively. The surname must
// match in full; the forename matches on full token or initial, and a
// byline entry carrying only a surname matches on surname alone.
func NameMatches(a types.Author, bylineName string) bool {
	surname, forename := splitName(bylineName)
	if !strings.EqualFold(surname, strings.TrimSpace(a.Surname)) {
		return false
	}
	if forename == "" || a.Forename == "" {
		return true
	}

	want := strings.ToLower(strings.TrimSpace(a.Forename))
	got := strings.ToLower(forename)

	// First token of the byline forename: "Stuart M." -> "stuart",
	// "S. M." -> "s.".
	got = strings.Fields(got)[0]
	got = strings.TrimSuffix(got, ".")
	wantFirst := strings.TrimSuffix(strings.Fields(want)[0], ".")
	if got == "" || wantFirst == "" {
		return false
	}

	if got == wantFirst {
		return true
	}
	// Initial heuristic: either side abbreviated to one letter.
	return got[:1] == wantFirst[:1] && (len(got) == 1 || len(wantFirst) == 1)
}

// splitName parses "Surname, Forename ..." into its parts. A name without
// a comma is treated as surname only.
func splitName(name string) (surname, forename string) {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
	}
	return name, ""
}
