// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"fmt"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

// AuthorQuery builds the search string for a tracked author. When the
// author has an ORCID the query also matches records claimed under any of
// the three ADS ORCID sources, so ORCID-linked papers are found regardless
// of name-string formatting.
//
// firstAuthorOnly restricts the name clause to first-author position (the
// regular tracking query); otherwise the name matches any byline position
// (the deep-check query).
func AuthorQuery(a types.Author, firstAuthorOnly bool) string {
	field := "author"
	if firstAuthorOnly {
		field = "first_author"
	}
	nameClause := fmt.Sprintf("%s:%q", field, a.QueryName())

	if a.ORCID == "" {
		return nameClause
	}
	return fmt.Sprintf(
		"orcid_pub:%s OR orcid_user:%s OR orcid_other:%s OR %s",
		a.ORCID, a.ORCID, a.ORCID, nameClause,
	)
}

// CitationsQuery builds the search string returning all papers that cite
// the given bibcode.
func CitationsQuery(bibcode string) string {
	return fmt.Sprintf("citations(bibcode:%s)", bibcode)
}
