// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore ID",
	Short: "Mark a publication as ignored",
	Long: `Ignore freezes a tracked publication: it stays in the snapshot but is
excluded from checks, metrics, and removal prompts. Useful for mismatched
papers or conference abstracts you do not want counted.

Find publication IDs with 'myads ignored' or in the export output.`,
	Args: cobra.ExactArgs(1),
	RunE: runIgnore,
}

func runIgnore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid publication id %q", args[0])
	}
	reason, _ := cmd.Flags().GetString("reason")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Ignore(ctx, id, reason); err != nil {
		return err
	}
	p, err := st.PublicationByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Ignoring %s (%s)\n", p.Bibcode, p.Title)
	return nil
}

var unignoreCmd = &cobra.Command{
	Use:   "unignore ID",
	Short: "Clear a publication's ignore marker",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnignore,
}

func runUnignore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid publication id %q", args[0])
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Unignore(ctx, id); err != nil {
		return err
	}
	p, err := st.PublicationByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Tracking %s again\n", p.Bibcode)
	return nil
}

var ignoredCmd = &cobra.Command{
	Use:   "ignored",
	Short: "List ignored publications",
	RunE:  runIgnored,
}

func runIgnored(cmd *cobra.Command, args []string) error {
	authorID, _ := cmd.Flags().GetInt64("author")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	pubs, err := st.IgnoredPublications(context.Background(), authorID)
	if err != nil {
		return err
	}
	if len(pubs) == 0 {
		fmt.Println("No ignored publications.")
		return nil
	}

	fmt.Printf("%-6s  %-19s  %-50s  %s\n", "ID", "Bibcode", "Title", "Reason")
	fmt.Println(strings.Repeat("-", 100))
	for _, p := range pubs {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Printf("%-6d  %-19s  %-50s  %s\n", p.ID, p.Bibcode, title, p.IgnoreReason)
	}
	return nil
}

func init() {
	ignoreCmd.Flags().String("reason", "", "why this publication is ignored")
	ignoredCmd.Flags().Int64("author", 0, "list for a single author by ID")

	rootCmd.AddCommand(ignoreCmd)
	rootCmd.AddCommand(unignoreCmd)
	rootCmd.AddCommand(ignoredCmd)
}
