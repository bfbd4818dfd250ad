// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// RecordAuthor is one byline entry of a remote record. The ORCID is only
// present when the remote source has an ORCID claim for that position.
type RecordAuthor struct {
	Name  string `json:"name" yaml:"name"`
	ORCID string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
}

// RemoteRecord is a normalized bibliographic record returned by a remote
// search. Bibcode is the stable external key.
type RemoteRecord struct {
	Bibcode       string         `json:"bibcode" yaml:"bibcode"`
	Title         string         `json:"title" yaml:"title"`
	AuthorList    []RecordAuthor `json:"author_list" yaml:"author_list"`
	PubDate       string         `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`
	DOI           string         `json:"doi,omitempty" yaml:"doi,omitempty"`
	Abstract      string         `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	CitationCount int            `json:"citation_count" yaml:"citation_count"`
}

// AuthorNames returns the byline names in order.
func (r RemoteRecord) AuthorNames() []string {
	names := make([]string, 0, len(r.AuthorList))
	for _, a := range r.AuthorList {
		names = append(names, a.Name)
	}
	return names
}

// JoinedAuthors returns the byline as a "; "-joined snapshot string, the
// form persisted on a Publication.
func (r RemoteRecord) JoinedAuthors() string {
	return strings.Join(r.AuthorNames(), "; ")
}
