// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuartmcalpine/myADS/internal/ads"
	"github.com/stuartmcalpine/myADS/internal/store"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

const testORCID = "0000-0002-8286-7809"

// stubSearcher answers the primary (first-author) and deep (any-position)
// queries from canned results, keyed off the query shape the engine builds.
type stubSearcher struct {
	primary      *ads.Result
	primaryErr   error
	deep         *ads.Result
	deepErr      error
	citations    map[string]*ads.Result
	citationsErr error
}

func (s *stubSearcher) Search(ctx context.Context, q, sort string) (*ads.Result, error) {
	if strings.Contains(q, "first_author:") {
		return s.primary, s.primaryErr
	}
	return s.deep, s.deepErr
}

func (s *stubSearcher) Citations(ctx context.Context, bibcode string) (*ads.Result, error) {
	if s.citationsErr != nil {
		return nil, s.citationsErr
	}
	if r, ok := s.citations[bibcode]; ok {
		return r, nil
	}
	return &ads.Result{}, nil
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "myads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testAuthor(t *testing.T, s *store.Store) types.Author {
	t.Helper()
	a, _, err := s.AddAuthor(context.Background(), "Stuart", "McAlpine", testORCID)
	require.NoError(t, err)
	return a
}

// firstAuthorRecord is a strong match through the first-author name rule.
func firstAuthorRecord(bibcode string, cites int) types.RemoteRecord {
	return types.RemoteRecord{
		Bibcode: bibcode,
		Title:   "Paper " + bibcode,
		PubDate: "2021-04-00",
		AuthorList: []types.RecordAuthor{
			{Name: "McAlpine, Stuart"},
			{Name: "Frenk, Carlos"},
		},
		CitationCount: cites,
	}
}

// midBylineRecord matches only by name at a non-first position, so it is a
// deep-mode candidate.
func midBylineRecord(bibcode string, cites int) types.RemoteRecord {
	return types.RemoteRecord{
		Bibcode: bibcode,
		Title:   "Collab " + bibcode,
		PubDate: "2022-01-00",
		AuthorList: []types.RecordAuthor{
			{Name: "Frenk, Carlos"},
			{Name: "McAlpine, S."},
		},
		CitationCount: cites,
	}
}

func TestRunFirstPassInsertsMatches(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 2, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 5),
			firstAuthorRecord("paperB", 2),
		}},
		citations: map[string]*ads.Result{
			"paperA": {NumFound: 1, Records: []types.RemoteRecord{
				{Bibcode: "citerA", Title: "A citer", PubDate: "2026-06-00"},
			}},
		},
	}

	var buf bytes.Buffer
	outcome, err := Run(context.Background(), st, client, a, Static{}, Options{}, &buf)
	require.NoError(t, err)

	assert.Len(t, outcome.Report.Added, 2)
	assert.False(t, outcome.Truncated)
	assert.Len(t, outcome.NewCites["paperA"], 1)

	pubs, err := st.Publications(context.Background(), a.ID, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	assert.Equal(t, 5, pubs[0].CitationCount)

	cites, err := st.CitingPapers(context.Background(), pubs[0].ID)
	require.NoError(t, err)
	require.Len(t, cites, 1)
	assert.Equal(t, "citerA", cites[0].Bibcode)
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 5),
		}},
	}

	ctx := context.Background()
	var buf bytes.Buffer
	_, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	outcome, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.Empty(t, outcome.Report.Added)
	assert.Empty(t, outcome.Report.Updated)
	assert.Empty(t, outcome.Report.Missing)
	assert.Len(t, outcome.Report.Refreshed, 1)
}

func TestRunNegativeDeltaSurfaced(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)
	ctx := context.Background()

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 10),
		}},
	}
	var buf bytes.Buffer
	_, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	client.primary = &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
		firstAuthorRecord("paperA", 8),
	}}
	outcome, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	require.Len(t, outcome.Report.Updated, 1)
	assert.Equal(t, -2, outcome.Report.Updated[0].Delta)
	assert.True(t, outcome.Report.Updated[0].Negative())

	p, err := st.PublicationByID(ctx, outcome.Report.Updated[0].Publication.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, p.CitationCount)
	assert.Equal(t, 10, p.PreviousCount)
}

func TestRunRemoteFailureLeavesSnapshotIntact(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)
	ctx := context.Background()

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 5),
		}},
	}
	var buf bytes.Buffer
	_, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	client.primary = nil
	client.primaryErr = ads.ErrRateLimited
	_, err = Run(ctx, st, client, a, Static{ConfirmRemovals: true}, Options{SkipCitations: true}, &buf)
	require.ErrorIs(t, err, ads.ErrRateLimited)

	pubs, err := st.Publications(ctx, a.ID, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, pubs, 1, "a failed fetch must never look like a removal")
}

func TestRunMissingRequiresConfirmation(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)
	ctx := context.Background()

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 2, Records: []types.RemoteRecord{
			firstAuthorRecord("stays", 5),
			firstAuthorRecord("vanishes", 2),
		}},
	}
	var buf bytes.Buffer
	_, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	client.primary = &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
		firstAuthorRecord("stays", 5),
	}}

	// Declined removal leaves the record untouched.
	outcome, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)
	require.Len(t, outcome.Report.Kept, 1)
	assert.Empty(t, outcome.Report.Removed)

	pubs, err := st.Publications(ctx, a.ID, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, pubs, 2)

	// Confirmed removal tombstones it.
	outcome, err = Run(ctx, st, client, a, Static{ConfirmRemovals: true}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)
	require.Len(t, outcome.Report.Removed, 1)
	assert.Equal(t, "vanishes", outcome.Report.Removed[0].Bibcode)

	pubs, err = st.Publications(ctx, a.ID, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, pubs, 1)

	all, err := st.Publications(ctx, a.ID, store.ListOptions{IncludeRemoved: true})
	require.NoError(t, err)
	assert.Len(t, all, 2, "tombstoned rows stay in the snapshot")
}

func TestRunTombstoneResurrection(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)
	ctx := context.Background()

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 5),
		}},
	}
	var buf bytes.Buffer
	_, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	client.primary = &ads.Result{}
	_, err = Run(ctx, st, client, a, Static{ConfirmRemovals: true}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	client.primary = &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
		firstAuthorRecord("paperA", 6),
	}}
	outcome, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	require.Len(t, outcome.Report.Updated, 1)
	assert.True(t, outcome.Report.Updated[0].Resurrected)

	pubs, err := st.Publications(ctx, a.ID, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, pubs, 1)
}

func TestRunDeepAcceptAndReject(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)
	ctx := context.Background()

	primary := &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
		firstAuthorRecord("paperA", 5),
	}}
	deep := &ads.Result{NumFound: 3, Records: []types.RemoteRecord{
		firstAuthorRecord("paperA", 5),
		midBylineRecord("collabB", 9),
		midBylineRecord("collabC", 1),
	}}

	// Reject everything: candidates are memoized and nothing is stored.
	client := &stubSearcher{primary: primary, deep: deep}
	var buf bytes.Buffer
	outcome, err := Run(ctx, st, client, a, Static{}, Options{Deep: true, SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.Len(t, outcome.Report.Rejected, 2)

	rejected, err := st.RejectedBibcodes(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, rejected["collabB"])
	assert.True(t, rejected["collabC"])

	// The next deep pass must not re-offer the memoized rejections.
	outcome, err = Run(ctx, st, client, a, Static{AcceptCandidates: true}, Options{Deep: true, SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.Empty(t, outcome.Report.Accepted)
	assert.Empty(t, outcome.Report.Rejected)
	assert.Contains(t, buf.String(), "no new candidate papers")

	// After clearing the memo, acceptance stores the collaborations.
	_, err = st.ClearRejected(ctx, a.ID)
	require.NoError(t, err)

	outcome, err = Run(ctx, st, client, a, Static{AcceptCandidates: true}, Options{Deep: true, SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.Len(t, outcome.Report.Accepted, 2)

	pubs, err := st.Publications(ctx, a.ID, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, pubs, 3)
}

func TestRunDeepQueryFailureDowngradedToWarning(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 5),
		}},
		deepErr: ads.ErrRateLimited,
	}

	var buf bytes.Buffer
	outcome, err := Run(context.Background(), st, client, a, Static{}, Options{Deep: true, SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.Len(t, outcome.Report.Added, 1)
	assert.Contains(t, buf.String(), "warning: deep check skipped")
}

func TestRunIgnoredPublicationsFrozen(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)
	ctx := context.Background()

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 5),
		}},
	}
	var buf bytes.Buffer
	_, err := Run(ctx, st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)

	pubs, err := st.Publications(ctx, a.ID, store.ListOptions{})
	require.NoError(t, err)
	require.NoError(t, st.Ignore(ctx, pubs[0].ID, "not mine"))

	// Matched upstream: not refreshed.
	client.primary = &ads.Result{NumFound: 1, Records: []types.RemoteRecord{
		firstAuthorRecord("paperA", 50),
	}}
	outcome, err := Run(ctx, st, client, a, Static{ConfirmRemovals: true}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.Empty(t, outcome.Report.Updated)

	// Absent upstream: not reported missing either.
	client.primary = &ads.Result{}
	outcome, err = Run(ctx, st, client, a, Static{ConfirmRemovals: true}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.Empty(t, outcome.Report.Missing)
	assert.Empty(t, outcome.Report.Removed)
}

func TestRunTruncationWarning(t *testing.T) {
	st := testStore(t)
	a := testAuthor(t, st)

	client := &stubSearcher{
		primary: &ads.Result{NumFound: 5000, Records: []types.RemoteRecord{
			firstAuthorRecord("paperA", 5),
		}},
	}

	var buf bytes.Buffer
	outcome, err := Run(context.Background(), st, client, a, Static{}, Options{SkipCitations: true}, &buf)
	require.NoError(t, err)
	assert.True(t, outcome.Truncated)
	assert.Contains(t, buf.String(), "result set truncated")
}

func TestFilterCandidatesExclusions(t *testing.T) {
	a := types.Author{Forename: "Stuart", Surname: "McAlpine", ORCID: testORCID}

	records := []types.RemoteRecord{
		midBylineRecord("offered", 3),
		midBylineRecord("alreadyStrong", 4),
		midBylineRecord("memoized", 5),
		midBylineRecord("frozen", 6),
		midBylineRecord("offered", 3), // duplicate in the result set
		{Bibcode: "unrelated", AuthorList: []types.RecordAuthor{{Name: "Doe, Jane"}}},
		{
			// ORCID match hiding at a non-first position: strong without a prompt.
			Bibcode:    "orcidHit",
			AuthorList: []types.RecordAuthor{{Name: "Frenk, Carlos"}, {Name: "M., S.", ORCID: testORCID}},
		},
	}

	candidates, strong := FilterCandidates(a, records,
		map[string]bool{"alreadyStrong": true},
		map[string]bool{"memoized": true},
		map[string]bool{"frozen": true})

	require.Len(t, candidates, 1)
	assert.Equal(t, "offered", candidates[0].Record.Bibcode)
	assert.Equal(t, 2, candidates[0].Position)

	require.Len(t, strong, 1)
	assert.Equal(t, "orcidHit", strong[0].Record.Bibcode)
	assert.Equal(t, 2, strong[0].Position)
}

func TestResolvePartialDecisionsOnPrompterError(t *testing.T) {
	a := types.Author{Forename: "Stuart", Surname: "McAlpine"}
	candidates := []Candidate{
		{Record: types.RemoteRecord{Bibcode: "first"}},
		{Record: types.RemoteRecord{Bibcode: "second"}},
		{Record: types.RemoteRecord{Bibcode: "third"}},
	}

	p := &failAfter{n: 2}
	out, err := Resolve(a, candidates, p)
	require.Error(t, err)
	assert.Len(t, out.Accepted, 2)
}

// failAfter accepts n candidates then fails.
type failAfter struct {
	n     int
	asked int
}

func (f *failAfter) ConfirmCandidate(types.Author, Candidate) (bool, error) {
	f.asked++
	if f.asked > f.n {
		return false, assert.AnError
	}
	return true, nil
}

func (f *failAfter) ConfirmRemoval(types.Author, types.Publication) (bool, error) {
	return false, nil
}
