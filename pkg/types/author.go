// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation tracker:
// tracked authors, persisted publications, remote search records, and
// configuration.
package types

import (
	"fmt"
	"time"
)

// Author is an identity tracked by the citation system. The ID is assigned
// by the snapshot store and never changes once assigned.
type Author struct {
	ID        int64     `json:"id" yaml:"id"`
	Forename  string    `json:"forename" yaml:"forename"`
	Surname   string    `json:"surname" yaml:"surname"`
	ORCID     string    `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Name returns the display name "Forename Surname".
func (a Author) Name() string {
	return fmt.Sprintf("%s %s", a.Forename, a.Surname)
}

// QueryName returns the "Surname, Forename" form used by bibliographic
// search services.
func (a Author) QueryName() string {
	return fmt.Sprintf("%s, %s", a.Surname, a.Forename)
}
