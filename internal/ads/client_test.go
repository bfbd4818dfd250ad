// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuartmcalpine/myADS/internal/httputil"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

const sampleResponse = `{
	"responseHeader": {"status": 0, "QTime": 12},
	"response": {
		"numFound": 2,
		"docs": [
			{
				"bibcode": "2020MNRAS.494.5978M",
				"title": ["Galaxy formation in the EAGLE simulation"],
				"author": ["McAlpine, Stuart", "Helly, John C.", "Schaller, Matthieu"],
				"orcid_pub": ["0000-0002-8286-7809", "-", "-"],
				"orcid_user": ["-", "-", "-"],
				"orcid_other": ["-", "-", "0000-0002-2395-4905"],
				"pubdate": "2020-03-00",
				"doi": ["10.1093/mnras/staa1123"],
				"citation_count": 42
			},
			{
				"bibcode": "2019MNRAS.488.2440M",
				"title": ["Rapid black hole growth"],
				"author": ["McAlpine, Stuart"],
				"pubdate": "2019-09-00",
				"citation_count": 17
			}
		]
	}
}`

// testClient points a Client at a stub server and restores apiBase after
// the test.
func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	orig := apiBase
	apiBase = ts.URL
	t.Cleanup(func() { apiBase = orig })

	return NewClient(types.ADSConfig{Token: "tok", Rows: 50})
}

func TestSearchParsesRecords(t *testing.T) {
	var gotAuth, gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("X-RateLimit-Remaining", "4990")
		fmt.Fprint(w, sampleResponse)
	})

	res, err := c.Search(context.Background(), `first_author:"McAlpine, Stuart"`, "pubdate desc")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, `first_author:"McAlpine, Stuart"`, gotQuery)
	assert.Equal(t, 2, res.NumFound)
	assert.False(t, res.Truncated())
	assert.Equal(t, 4990, c.Remaining)
	require.Len(t, res.Records, 2)

	rec := res.Records[0]
	assert.Equal(t, "2020MNRAS.494.5978M", rec.Bibcode)
	assert.Equal(t, "Galaxy formation in the EAGLE simulation", rec.Title)
	assert.Equal(t, "10.1093/mnras/staa1123", rec.DOI)
	assert.Equal(t, 42, rec.CitationCount)
	require.Len(t, rec.AuthorList, 3)
	assert.Equal(t, "0000-0002-8286-7809", rec.AuthorList[0].ORCID)
	assert.Empty(t, rec.AuthorList[1].ORCID)
	// orcid_other fills positions the other sources leave blank.
	assert.Equal(t, "0000-0002-2395-4905", rec.AuthorList[2].ORCID)

	// Second doc has no ORCID arrays at all.
	assert.Empty(t, res.Records[1].AuthorList[0].ORCID)
}

func TestSearchFailureTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"auth expired", http.StatusUnauthorized, ErrAuthExpired},
		{"forbidden", http.StatusForbidden, ErrAuthExpired},
		{"server error", http.StatusInternalServerError, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.Search(context.Background(), "author:x", "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSearchTransportError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {})
	// Point at a closed port.
	apiBase = "http://127.0.0.1:1"

	_, err := c.Search(context.Background(), "author:x", "")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCitationsQueryWiring(t *testing.T) {
	var gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"responseHeader":{"status":0},"response":{"numFound":0,"docs":[]}}`)
	})

	res, err := c.Citations(context.Background(), "2020MNRAS.494.5978M")
	require.NoError(t, err)
	assert.Equal(t, "citations(bibcode:2020MNRAS.494.5978M)", gotQuery)
	assert.Empty(t, res.Records)
}

func TestAuthorQuery(t *testing.T) {
	withORCID := types.Author{Forename: "Stuart", Surname: "McAlpine", ORCID: "0000-0002-8286-7809"}
	plain := types.Author{Forename: "Stuart", Surname: "McAlpine"}

	tests := []struct {
		name      string
		author    types.Author
		firstOnly bool
		want      string
	}{
		{
			"name only, first author", plain, true,
			`first_author:"McAlpine, Stuart"`,
		},
		{
			"name only, any position", plain, false,
			`author:"McAlpine, Stuart"`,
		},
		{
			"orcid clauses included", withORCID, true,
			`orcid_pub:0000-0002-8286-7809 OR orcid_user:0000-0002-8286-7809 ` +
				`OR orcid_other:0000-0002-8286-7809 OR first_author:"McAlpine, Stuart"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorQuery(tt.author, tt.firstOnly))
		})
	}
}
