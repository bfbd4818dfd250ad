// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var rejectedCmd = &cobra.Command{
	Use:   "rejected",
	Short: "Manage memoized deep-check rejections",
	Long: `Rejected lists or clears the papers declined during past --deep checks.
A rejected paper is never offered for confirmation again until its memo is
cleared here.`,
}

var rejectedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memoized rejections",
	RunE:  runRejectedList,
}

func runRejectedList(cmd *cobra.Command, args []string) error {
	authorID, _ := cmd.Flags().GetInt64("author")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	rejected, err := st.RejectedCandidates(ctx, authorID)
	if err != nil {
		return err
	}
	if len(rejected) == 0 {
		fmt.Println("No rejected candidates.")
		return nil
	}

	fmt.Printf("%-30s  %-19s  %s\n", "Author", "Bibcode", "Rejected")
	fmt.Println(strings.Repeat("-", 64))
	for _, r := range rejected {
		a, err := st.Author(ctx, r.AuthorID)
		if err != nil {
			return err
		}
		fmt.Printf("%-30s  %-19s  %s\n", a.Name(), r.Bibcode, r.RejectedAt.Format(time.DateOnly))
	}
	return nil
}

var rejectedClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear rejection memos so papers can be offered again",
	RunE:  runRejectedClear,
}

func runRejectedClear(cmd *cobra.Command, args []string) error {
	authorID, _ := cmd.Flags().GetInt64("author")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.ClearRejected(context.Background(), authorID)
	if err != nil {
		return err
	}
	fmt.Printf("Cleared %d rejection memo(s)\n", n)
	return nil
}

func init() {
	rejectedCmd.PersistentFlags().Int64("author", 0, "scope to a single author by ID (0 = all)")

	rejectedCmd.AddCommand(rejectedListCmd)
	rejectedCmd.AddCommand(rejectedClearCmd)

	rootCmd.AddCommand(rejectedCmd)
}
