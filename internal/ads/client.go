// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ads queries the ADS bibliographic search API and returns
// normalized remote records. Failures surface as one of three typed
// errors (ErrRateLimited, ErrAuthExpired, ErrTransport) so callers treat
// every failed pass as "no data", never as records having been removed.
package ads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/stuartmcalpine/myADS/internal/httputil"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

// apiBase is the ADS search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.adsabs.harvard.edu/v1/search/query"

// searchFields lists the record properties requested on every query.
const searchFields = "title,bibcode,author,orcid_pub,orcid_user,orcid_other," +
	"citation_count,pubdate,doi,abstract"

// Remote failure taxonomy. All three mean "no data this pass".
var (
	ErrRateLimited = errors.New("ads: rate limited")
	ErrAuthExpired = errors.New("ads: authorization rejected")
	ErrTransport   = errors.New("ads: transport error")
)

// Client wraps calls to the ADS search API.
type Client struct {
	http    *http.Client
	cfg     types.ADSConfig
	limiter *rate.Limiter

	// Calls counts API requests made through this client. Remaining holds
	// the daily quota left on the token, from the last response header.
	Calls     int
	Remaining int
}

// NewClient builds a client from cfg. A zero RequestsPerSecond disables
// client-side throttling.
func NewClient(cfg types.ADSConfig) *Client {
	if cfg.Rows <= 0 {
		cfg.Rows = 2000
	}
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		cfg:       cfg,
		Remaining: -1,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Result holds the outcome of one search query.
type Result struct {
	// NumFound is the total number of matching records upstream, which
	// may exceed len(Records) when the row limit truncates the response.
	NumFound int
	Records  []types.RemoteRecord
}

// Truncated reports whether the row limit cut off the result set.
func (r *Result) Truncated() bool {
	return r.NumFound > len(r.Records)
}

// Bibcodes returns the set of record identifiers in the result.
func (r *Result) Bibcodes() map[string]bool {
	set := make(map[string]bool, len(r.Records))
	for _, rec := range r.Records {
		set[rec.Bibcode] = true
	}
	return set
}

// Search runs a raw ADS query string and returns normalized records
// sorted by the given sort expression (e.g. "pubdate desc").
func (c *Client) Search(ctx context.Context, q, sort string) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{
		"q":    {q},
		"fl":   {searchFields},
		"rows": {strconv.Itoa(c.cfg.Rows)},
	}
	if sort != "" {
		params.Set("sort", sort)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	c.Calls++

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Remaining = n
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrAuthExpired
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: HTTP %d", ErrTransport, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %v", ErrTransport, err)
	}

	result := &Result{NumFound: body.Response.NumFound}
	for _, doc := range body.Response.Docs {
		result.Records = append(result.Records, doc.toRecord())
	}
	return result, nil
}

// Citations returns the records citing the given bibcode.
func (c *Client) Citations(ctx context.Context, bibcode string) (*Result, error) {
	return c.Search(ctx, CitationsQuery(bibcode), "")
}

// searchResponse mirrors the ADS JSON envelope.
type searchResponse struct {
	ResponseHeader struct {
		Status int `json:"status"`
		QTime  int `json:"QTime"`
	} `json:"responseHeader"`
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

// searchDoc is one raw document. Title and doi arrive as arrays; the
// orcid_* arrays are aligned with the author array, with "-" marking an
// absent value.
type searchDoc struct {
	Bibcode       string   `json:"bibcode"`
	Title         []string `json:"title"`
	Author        []string `json:"author"`
	OrcidPub      []string `json:"orcid_pub"`
	OrcidUser     []string `json:"orcid_user"`
	OrcidOther    []string `json:"orcid_other"`
	PubDate       string   `json:"pubdate"`
	DOI           []string `json:"doi"`
	Abstract      string   `json:"abstract"`
	CitationCount int      `json:"citation_count"`
}

func (d searchDoc) toRecord() types.RemoteRecord {
	rec := types.RemoteRecord{
		Bibcode:       d.Bibcode,
		PubDate:       d.PubDate,
		Abstract:      d.Abstract,
		CitationCount: d.CitationCount,
	}
	if len(d.Title) > 0 {
		rec.Title = d.Title[0]
	}
	if len(d.DOI) > 0 {
		rec.DOI = d.DOI[0]
	}
	for i, name := range d.Author {
		rec.AuthorList = append(rec.AuthorList, types.RecordAuthor{
			Name:  name,
			ORCID: orcidAt(i, d.OrcidPub, d.OrcidUser, d.OrcidOther),
		})
	}
	return rec
}

// orcidAt returns the first claimed ORCID for byline position i across
// the three ADS ORCID sources.
func orcidAt(i int, sources ...[]string) string {
	for _, src := range sources {
		if i < len(src) && src[i] != "" && src[i] != "-" {
			return src[i]
		}
	}
	return ""
}
