// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

var tracked = types.Author{
	Forename: "Stuart",
	Surname:  "McAlpine",
	ORCID:    "0000-0002-8286-7809",
}

func record(authors ...types.RecordAuthor) types.RemoteRecord {
	return types.RemoteRecord{Bibcode: "2020Test.......1M", AuthorList: authors}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		author types.Author
		rec    types.RemoteRecord
		deep   bool
		want   Match
	}{
		{
			name:   "orcid match wins regardless of name formatting",
			author: tracked,
			rec: record(
				types.RecordAuthor{Name: "Smith, Jane"},
				types.RecordAuthor{Name: "M. S.", ORCID: "0000-0002-8286-7809"},
			),
			want: Match{Kind: StrongMatch, Position: 2},
		},
		{
			name:   "first author name match is strong",
			author: types.Author{Forename: "Stuart", Surname: "McAlpine"},
			rec: record(
				types.RecordAuthor{Name: "McAlpine, Stuart"},
				types.RecordAuthor{Name: "Smith, Jane"},
			),
			want: Match{Kind: StrongMatch, Position: 1},
		},
		{
			name:   "first author initial match is strong",
			author: types.Author{Forename: "Stuart", Surname: "McAlpine"},
			rec:    record(types.RecordAuthor{Name: "mcalpine, s."}),
			want:   Match{Kind: StrongMatch, Position: 1},
		},
		{
			name:   "mid-byline name match needs deep mode",
			author: types.Author{Forename: "Stuart", Surname: "McAlpine"},
			rec: record(
				types.RecordAuthor{Name: "Smith, Jane"},
				types.RecordAuthor{Name: "McAlpine, Stuart"},
			),
			deep: true,
			want: Match{Kind: Candidate, Position: 2},
		},
		{
			name:   "mid-byline name match without deep mode is no match",
			author: types.Author{Forename: "Stuart", Surname: "McAlpine"},
			rec: record(
				types.RecordAuthor{Name: "Smith, Jane"},
				types.RecordAuthor{Name: "McAlpine, Stuart"},
			),
			want: Match{Kind: NoMatch},
		},
		{
			name:   "no byline presence at all",
			author: tracked,
			rec: record(
				types.RecordAuthor{Name: "Smith, Jane"},
				types.RecordAuthor{Name: "Doe, John"},
			),
			deep: true,
			want: Match{Kind: NoMatch},
		},
		{
			name:   "different forename same surname is no match",
			author: types.Author{Forename: "Stuart", Surname: "McAlpine"},
			rec:    record(types.RecordAuthor{Name: "McAlpine, Kenneth"}),
			want:   Match{Kind: NoMatch},
		},
		{
			name:   "wrong orcid falls through to name rules",
			author: tracked,
			rec: record(
				types.RecordAuthor{Name: "McAlpine, Stuart", ORCID: "0000-0001-0000-0000"},
			),
			want: Match{Kind: StrongMatch, Position: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.author, tt.rec, tt.deep))
		})
	}
}

func TestNameMatches(t *testing.T) {
	a := types.Author{Forename: "Stuart", Surname: "McAlpine"}

	tests := []struct {
		byline string
		want   bool
	}{
		{"McAlpine, Stuart", true},
		{"MCALPINE, STUART", true},
		{"McAlpine, S.", true},
		{"McAlpine, S. M.", true},
		{"McAlpine, Stuart Peter", true},
		{"McAlpine", true},
		{"McAlpine, Kenneth", false},
		{"Macalpine, Stuart", false},
		{"Smith, Stuart", false},
	}

	for _, tt := range tests {
		t.Run(tt.byline, func(t *testing.T) {
			assert.Equal(t, tt.want, NameMatches(a, tt.byline), "byline %q", tt.byline)
		})
	}
}

func TestNameMatchesAbbreviatedTrackedForename(t *testing.T) {
	// A tracked author registered with an initial still matches a full
	// byline forename.
	a := types.Author{Forename: "S", Surname: "McAlpine"}
	assert.True(t, NameMatches(a, "McAlpine, Stuart"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "strong-match", StrongMatch.String())
	assert.Equal(t, "candidate", Candidate.String())
	assert.Equal(t, "no-match", NoMatch.String())
}
