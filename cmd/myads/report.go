// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stuartmcalpine/myADS/internal/metrics"
	"github.com/stuartmcalpine/myADS/internal/report"
	"github.com/stuartmcalpine/myADS/internal/store"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show citation metrics for tracked authors",
	Long: `Report computes citation metrics from the local snapshot, without any
API calls: per-publication citation counts, citations per year, citations
in the recent window, byline position, and the per-author totals with
h-index. Run 'myads check' first to refresh the snapshot.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	authorID, _ := cmd.Flags().GetInt64("author")
	showIgnored, _ := cmd.Flags().GetBool("show-ignored")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var authors []types.Author
	if authorID != 0 {
		a, err := st.Author(ctx, authorID)
		if err != nil {
			return err
		}
		authors = []types.Author{a}
	} else {
		if authors, err = st.Authors(ctx); err != nil {
			return err
		}
	}
	if len(authors) == 0 {
		return fmt.Errorf("no tracked authors: add one with 'myads author add'")
	}

	window := trackerConfig().RecencyWindow()
	now := time.Now().UTC()
	out := cmd.OutOrStdout()

	for i, a := range authors {
		pubs, err := st.Publications(ctx, a.ID, store.ListOptions{IncludeIgnored: showIgnored})
		if err != nil {
			return err
		}
		citing, err := st.CitingByAuthor(ctx, a.ID)
		if err != nil {
			return err
		}

		bundle := metrics.Compute(pubs, citing, now, window)
		if err := report.WriteMetrics(out, a, bundle, format); err != nil {
			return err
		}
		if format == report.FormatTable && i < len(authors)-1 {
			fmt.Fprintln(out)
		}
	}
	return nil
}

func init() {
	reportCmd.Flags().Int64("author", 0, "report on a single author by ID")
	reportCmd.Flags().Bool("show-ignored", false, "include ignored publications")
	reportCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(reportCmd)
}
