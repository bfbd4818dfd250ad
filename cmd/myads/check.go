// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stuartmcalpine/myADS/internal/reconcile"
	"github.com/stuartmcalpine/myADS/internal/report"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Reconcile tracked authors against fresh ADS results",
	Long: `Check runs one reconciliation pass per tracked author: it fetches the
author's publications from ADS, matches them by ORCID or first-author name,
diffs the result against the local snapshot, and reports new papers,
citation-count changes, and publications that disappeared upstream.

Nothing is removed without confirmation; a disappeared publication is only
tombstoned after a per-record yes. With --deep, name matches at any byline
position are offered for confirmation; rejected papers are remembered and
never offered again.

A failed API call means "no data this pass": the author's snapshot is left
untouched and the pass moves on to the next author.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	authorID, _ := cmd.Flags().GetInt64("author")
	deep, _ := cmd.Flags().GetBool("deep")
	rows, _ := cmd.Flags().GetInt("rows")
	skipCitations, _ := cmd.Flags().GetBool("no-citations")
	assumeYes, _ := cmd.Flags().GetBool("yes")
	assumeNo, _ := cmd.Flags().GetBool("no")
	if assumeYes && assumeNo {
		return fmt.Errorf("--yes and --no are mutually exclusive")
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

	var prompter reconcile.Prompter
	switch {
	case assumeYes:
		prompter = reconcile.Static{AcceptCandidates: true, ConfirmRemovals: true}
	case assumeNo:
		prompter = reconcile.Static{}
	default:
		prompter = newTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	opts := reconcile.Options{Deep: deep, SkipCitations: skipCitations}
	out := cmd.OutOrStdout()

	// One failed author never aborts the rest of the pass.
	failed := 0
	for _, a := range authors {
		outcome, err := reconcile.Run(ctx, st, client, a, prompter, opts, out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s not updated: %v\n", a.Name(), err)
			failed++
			continue
		}
		report.WriteOutcome(out, outcome)
	}

	if client.Remaining >= 0 {
		fmt.Fprintf(out, "\n%d API call(s), %d remaining today\n", client.Calls, client.Remaining)
	}
	if failed > 0 {
		return fmt.Errorf("%d author(s) not updated", failed)
	}
	return nil
}

func init() {
	checkCmd.Flags().Int64("author", 0, "check a single author by ID")
	checkCmd.Flags().Bool("deep", false, "offer name matches at any byline position for confirmation")
	checkCmd.Flags().Int("rows", 0, "maximum records per query (0 = config default)")
	checkCmd.Flags().Bool("no-citations", false, "skip the per-publication citing-paper refresh")
	checkCmd.Flags().Bool("yes", false, "answer yes to every prompt (accept candidates, confirm removals)")
	checkCmd.Flags().Bool("no", false, "answer no to every prompt (non-interactive, change nothing ambiguous)")

	rootCmd.AddCommand(checkCmd)
}
