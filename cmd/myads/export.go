// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stuartmcalpine/myADS/internal/report"
	"github.com/stuartmcalpine/myADS/internal/store"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full snapshot to YAML or JSON",
	Long: `Export writes the complete tracked state to stdout or a file: every
author with all publications, citation counters, citing papers, ignore
markers, and tombstones. Suitable for backups or downstream processing.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	authorID, _ := cmd.Flags().GetInt64("author")
	formatFlag, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")

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

	snap := report.Snapshot{ExportedAt: time.Now().UTC()}
	for _, a := range authors {
		pubs, err := st.Publications(ctx, a.ID, store.ListOptions{IncludeIgnored: true, IncludeRemoved: true})
		if err != nil {
			return err
		}
		citing, err := st.CitingByAuthor(ctx, a.ID)
		if err != nil {
			return err
		}
		snap.Authors = append(snap.Authors, report.ExportOf(a, pubs, citing))
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := report.WriteSnapshot(out, snap, format); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Printf("Exported %d author(s) to %s\n", len(snap.Authors), outPath)
	}
	return nil
}

func init() {
	exportCmd.Flags().Int64("author", 0, "export a single author by ID")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("output", "", "write to a file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}
