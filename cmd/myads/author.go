// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Manage the set of tracked authors",
}

// --- add subcommand ---

var authorAddCmd = &cobra.Command{
	Use:   "add SURNAME FORENAME",
	Short: "Start tracking an author",
	Long: `Add registers an author for citation tracking. Provide the ORCID when
you have one: ORCID matches are unambiguous, while name-only tracking relies
on first-author matching and the --deep confirmation workflow.`,
	Args: cobra.ExactArgs(2),
	RunE: runAuthorAdd,
}

func runAuthorAdd(cmd *cobra.Command, args []string) error {
	orcid, _ := cmd.Flags().GetString("orcid")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	a, created, err := st.AddAuthor(context.Background(), args[1], args[0], orcid)
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("%s is already tracked (id %d)\n", a.Name(), a.ID)
		return nil
	}
	fmt.Printf("Tracking %s (id %d)\n", a.Name(), a.ID)
	return nil
}

// --- remove subcommand ---

var authorRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Stop tracking an author and delete their snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthorRemove,
}

func runAuthorRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid author id %q", args[0])
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	a, err := st.Author(ctx, id)
	if err != nil {
		return err
	}
	n, err := st.PublicationCount(ctx, id)
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		ok, err := askYesNo(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("Remove %s and their %d tracked publication(s)?", a.Name(), n))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := st.RemoveAuthor(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", a.Name())
	return nil
}

// --- list subcommand ---

var authorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked authors",
	RunE:  runAuthorList,
}

func runAuthorList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	authors, err := st.Authors(ctx)
	if err != nil {
		return err
	}
	if len(authors) == 0 {
		fmt.Println("No tracked authors. Add one with 'myads author add'.")
		return nil
	}

	fmt.Printf("%-4s  %-30s  %-20s  %s\n", "ID", "Name", "ORCID", "Pubs")
	fmt.Println(strings.Repeat("-", 64))
	for _, a := range authors {
		n, err := st.PublicationCount(ctx, a.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%-4d  %-30s  %-20s  %d\n", a.ID, a.Name(), a.ORCID, n)
	}
	return nil
}

func init() {
	authorAddCmd.Flags().String("orcid", "", "author ORCID identifier (e.g. 0000-0002-8286-7809)")
	authorRemoveCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	authorCmd.AddCommand(authorAddCmd)
	authorCmd.AddCommand(authorRemoveCmd)
	authorCmd.AddCommand(authorListCmd)

	rootCmd.AddCommand(authorCmd)
}
