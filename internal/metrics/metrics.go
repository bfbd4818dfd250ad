// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics derives citation figures from a reconciled snapshot:
// totals, per-year rates, recent-window counts, byline position labels,
// and the H-index. Everything here is a pure function of its inputs.
package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stuartmcalpine/myADS/pkg/types"
)

// PublicationMetrics is the per-publication slice of the bundle.
type PublicationMetrics struct {
	Publication types.Publication

	// Year is the publication year, zero when the date failed to parse.
	Year int

	// PerYear is total citations divided by the publication age in whole
	// years (minimum one year). Negative when the year is unknown.
	PerYear float64

	// RecentCitations counts citing papers that fell inside the recency
	// window, by citing-paper date when available, otherwise by local
	// discovery date.
	RecentCitations int

	// PositionLabel renders the matched byline position: "1st", "2nd",
	// "3rd", "7th", "Last", or "?" when unknown.
	PositionLabel string
}

// Bundle is the metrics report for one author.
type Bundle struct {
	Publications      []PublicationMetrics
	TotalPublications int
	TotalCitations    int
	AverageCitations  float64
	HIndex            int
}

// Compute derives the metrics bundle from an author's publications.
// Ignored publications get a per-publication row but are excluded from
// every aggregate. citing maps publication ID to its known citing papers
// and feeds the recent-window counts; window is the rolling recency window.
func Compute(pubs []types.Publication, citing map[int64][]types.CitingPaper, now time.Time, window time.Duration) Bundle {
	var bundle Bundle
	cutoff := now.Add(-window)
	counts := make([]int, 0, len(pubs))

	for _, p := range pubs {
		pm := PublicationMetrics{
			Publication:   p,
			PerYear:       -1,
			PositionLabel: PositionLabel(p.Position, len(p.AuthorList())),
		}

		if t, ok := ParsePubDate(p.PubDate); ok {
			pm.Year = t.Year()
			age := now.Year() - t.Year()
			if age < 1 {
				age = 1
			}
			pm.PerYear = float64(p.CitationCount) / float64(age)
		}

		for _, c := range citing[p.ID] {
			when := c.DiscoveredAt
			if t, ok := ParsePubDate(c.PubDate); ok {
				when = t
			}
			if !when.Before(cutoff) && !when.After(now) {
				pm.RecentCitations++
			}
		}

		bundle.Publications = append(bundle.Publications, pm)
		if p.Ignored {
			continue
		}
		bundle.TotalPublications++
		bundle.TotalCitations += p.CitationCount
		counts = append(counts, p.CitationCount)
	}

	if bundle.TotalPublications > 0 {
		bundle.AverageCitations = float64(bundle.TotalCitations) / float64(bundle.TotalPublications)
	}
	bundle.HIndex = HIndex(counts)
	return bundle
}

// HIndex returns the largest h such that at least h publications have
// citation count >= h.
func HIndex(counts []int) int {
	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	h := 0
	for i, c := range sorted {
		if c >= i+1 {
			h = i + 1
		} else {
			break
		}
	}
	return h
}

// PositionLabel renders a 1-based byline position as an ordinal. The
// final position of a multi-author byline is "Last"; an unknown position
// (zero, or beyond the recorded byline) is "?".
func PositionLabel(position, total int) string {
	if position <= 0 || (total > 0 && position > total) {
		return "?"
	}
	if total > 1 && position == total {
		return "Last"
	}
	switch position {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", position)
	}
}

// ParsePubDate parses a remote-source date string such as "2020-03-15",
// "2020-03-00", or "2020-00-00". Zero month or day components mean
// "unknown" upstream and are treated as January / the 1st. A trailing
// time component ("T...") is ignored.
func ParsePubDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.Index(s, "T"); i >= 0 {
		s = s[:i]
	}

	parts := strings.Split(s, "-")
	year, err := strconv.Atoi(parts[0])
	if err != nil || year == 0 {
		return time.Time{}, false
	}

	month, day := 1, 1
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	if len(parts) > 2 {
		if d, err := strconv.Atoi(parts[2]); err == nil && d >= 1 && d <= 31 {
			day = d
		}
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
