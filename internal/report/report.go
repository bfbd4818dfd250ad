// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders metrics bundles, reconciliation summaries, and
// snapshot exports as tables, JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/stuartmcalpine/myADS/internal/metrics"
	"github.com/stuartmcalpine/myADS/internal/reconcile"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

// Format selects an output rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, or yaml)", s)
	}
}

// publicationView is the serializable shape of one publication's metrics.
type publicationView struct {
	Bibcode         string  `json:"bibcode" yaml:"bibcode"`
	Title           string  `json:"title" yaml:"title"`
	Year            int     `json:"year,omitempty" yaml:"year,omitempty"`
	Position        string  `json:"position" yaml:"position"`
	Citations       int     `json:"citations" yaml:"citations"`
	CitationsPerYr  float64 `json:"citations_per_year" yaml:"citations_per_year"`
	RecentCitations int     `json:"recent_citations" yaml:"recent_citations"`
	Ignored         bool    `json:"ignored,omitempty" yaml:"ignored,omitempty"`
}

// metricsView is the serializable shape of one author's metrics bundle.
type metricsView struct {
	Author           string            `json:"author" yaml:"author"`
	ORCID            string            `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	Publications     []publicationView `json:"publications" yaml:"publications"`
	TotalPubs        int               `json:"total_publications" yaml:"total_publications"`
	TotalCitations   int               `json:"total_citations" yaml:"total_citations"`
	AverageCitations float64           `json:"average_citations" yaml:"average_citations"`
	HIndex           int               `json:"h_index" yaml:"h_index"`
}

func viewOf(a types.Author, b metrics.Bundle) metricsView {
	v := metricsView{
		Author:           a.Name(),
		ORCID:            a.ORCID,
		TotalPubs:        b.TotalPublications,
		TotalCitations:   b.TotalCitations,
		AverageCitations: b.AverageCitations,
		HIndex:           b.HIndex,
	}
	for _, pm := range b.Publications {
		pv := publicationView{
			Bibcode:         pm.Publication.Bibcode,
			Title:           pm.Publication.Title,
			Year:            pm.Year,
			Position:        pm.PositionLabel,
			Citations:       pm.Publication.CitationCount,
			RecentCitations: pm.RecentCitations,
			Ignored:         pm.Publication.Ignored,
		}
		if pm.PerYear >= 0 {
			pv.CitationsPerYr = pm.PerYear
		}
		v.Publications = append(v.Publications, pv)
	}
	return v
}

// WriteMetrics renders one author's metrics bundle in the chosen format.
func WriteMetrics(w io.Writer, a types.Author, b metrics.Bundle, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, viewOf(a, b))
	case FormatYAML:
		return writeYAML(w, viewOf(a, b))
	default:
		writeMetricsTable(w, a, b)
		return nil
	}
}

func writeMetricsTable(w io.Writer, a types.Author, b metrics.Bundle) {
	fmt.Fprintf(w, "Publications for %s", a.Name())
	if a.ORCID != "" {
		fmt.Fprintf(w, " (%s)", a.ORCID)
	}
	fmt.Fprintln(w)

	if len(b.Publications) == 0 {
		fmt.Fprintln(w, "No publications tracked.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-50s  %-4s  %-4s  %6s  %7s  %6s\n",
		"Bibcode", "Title", "Year", "Pos", "Cites", "Per yr", "Recent")
	fmt.Fprintln(w, strings.Repeat("-", 108))

	for _, pm := range b.Publications {
		year := ""
		if pm.Year > 0 {
			year = fmt.Sprintf("%d", pm.Year)
		}
		perYear := ""
		if pm.PerYear >= 0 {
			perYear = fmt.Sprintf("%.1f", pm.PerYear)
		}
		title := pm.Publication.Title
		if pm.Publication.Ignored {
			title = "[ignored] " + title
		}
		fmt.Fprintf(w, "%-19s  %-50s  %-4s  %-4s  %6d  %7s  %6d\n",
			pm.Publication.Bibcode, truncate(title, 50), year, pm.PositionLabel,
			pm.Publication.CitationCount, perYear, pm.RecentCitations)
	}

	fmt.Fprintf(w, "\n%d publications, %d citations (%.1f avg), h-index %d\n",
		b.TotalPublications, b.TotalCitations, b.AverageCitations, b.HIndex)
}

// WriteRecords renders raw remote records from a one-off search.
func WriteRecords(w io.Writer, records []types.RemoteRecord, numFound int, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatYAML:
		return writeYAML(w, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-55s  %-24s  %6s\n", "Bibcode", "Title", "First author", "Cites")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	total := 0
	for _, rec := range records {
		first := ""
		if len(rec.AuthorList) > 0 {
			first = rec.AuthorList[0].Name
		}
		fmt.Fprintf(w, "%-19s  %-55s  %-24s  %6d\n",
			rec.Bibcode, truncate(rec.Title, 55), truncate(first, 24), rec.CitationCount)
		total += rec.CitationCount
	}

	fmt.Fprintf(w, "\n%d of %d records shown, %d total citations\n", len(records), numFound, total)
	return nil
}

// WriteOutcome renders a reconciliation pass summary for one author.
func WriteOutcome(w io.Writer, o *reconcile.Outcome) {
	r := o.Report

	if !r.HasChanges() && len(o.NewCites) == 0 {
		fmt.Fprintf(w, "%s: up to date (%d publications)\n", o.Author.Name(), len(r.Refreshed))
		return
	}

	// Accepted candidates also appear in Added; print them once, under
	// their own label.
	accepted := make(map[string]bool, len(r.Accepted))
	for _, m := range r.Accepted {
		accepted[m.Record.Bibcode] = true
	}

	fmt.Fprintf(w, "%s:\n", o.Author.Name())
	for _, m := range r.Added {
		if accepted[m.Record.Bibcode] {
			continue
		}
		fmt.Fprintf(w, "  new      %s  %s\n", m.Record.Bibcode, truncate(m.Record.Title, 60))
	}
	for _, u := range r.Updated {
		if u.Resurrected {
			fmt.Fprintf(w, "  restored %s  %s\n", u.Publication.Bibcode, truncate(u.Record.Title, 60))
			continue
		}
		sign := "+"
		if u.Negative() {
			sign = ""
		}
		fmt.Fprintf(w, "  cites    %s  %d -> %d (%s%d)\n",
			u.Publication.Bibcode, u.Publication.CitationCount, u.Record.CitationCount, sign, u.Delta)
	}
	for _, p := range r.Removed {
		fmt.Fprintf(w, "  removed  %s  %s\n", p.Bibcode, truncate(p.Title, 60))
	}
	for _, p := range r.Kept {
		fmt.Fprintf(w, "  kept     %s  (absent upstream, removal declined)\n", p.Bibcode)
	}
	for _, m := range r.Accepted {
		fmt.Fprintf(w, "  accepted %s  %s\n", m.Record.Bibcode, truncate(m.Record.Title, 60))
	}
	for _, rec := range r.Rejected {
		fmt.Fprintf(w, "  rejected %s  (will not be offered again)\n", rec.Bibcode)
	}
	for bibcode, cites := range o.NewCites {
		fmt.Fprintf(w, "  %d new citation(s) of %s\n", len(cites), bibcode)
		for _, c := range cites {
			fmt.Fprintf(w, "    %s  %s\n", c.Bibcode, truncate(c.Title, 58))
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
