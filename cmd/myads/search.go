// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stuartmcalpine/myADS/internal/ads"
	"github.com/stuartmcalpine/myADS/internal/report"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search SURNAME FORENAME",
	Short: "Run a one-off ADS author search without touching the snapshot",
	Long: `Search queries ADS for an author's publications and prints the raw
result set with summary statistics. Nothing is stored; use 'myads author
add' followed by 'myads check' to start tracking.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	orcid, _ := cmd.Flags().GetString("orcid")
	firstOnly, _ := cmd.Flags().GetBool("first-author")
	rows, _ := cmd.Flags().GetInt("rows")
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
	client, err := adsClient(ctx, st, rows)
	if err != nil {
		return err
	}

	a := types.Author{Surname: args[0], Forename: args[1], ORCID: orcid}
	result, err := client.Search(ctx, ads.AuthorQuery(a, firstOnly), "pubdate desc")
	if err != nil {
		return err
	}

	if err := report.WriteRecords(cmd.OutOrStdout(), result.Records, result.NumFound, format); err != nil {
		return err
	}
	if client.Remaining >= 0 && format == report.FormatTable {
		fmt.Fprintf(cmd.OutOrStdout(), "%d API call(s), %d remaining today\n", client.Calls, client.Remaining)
	}
	return nil
}

func init() {
	searchCmd.Flags().String("orcid", "", "search by ORCID as well as name")
	searchCmd.Flags().Bool("first-author", false, "restrict name matching to first-author papers")
	searchCmd.Flags().Int("rows", 0, "maximum records to fetch (0 = config default)")
	searchCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(searchCmd)
}
