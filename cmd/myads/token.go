// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stuartmcalpine/myADS/internal/secrets"
	"github.com/stuartmcalpine/myADS/internal/store"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the ADS API token",
	Long: `Token stores the ADS API bearer token in the snapshot database. Get a
token from https://ui.adsabs.harvard.edu/user/settings/token.

The .secrets/ads-api-token file and the MYADS_TOKEN environment variable
work as fallbacks when no token is stored.`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [TOKEN]",
	Short: "Store the ADS API token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokenSet,
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		fmt.Fprint(cmd.OutOrStdout(), "ADS API token: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetCredential(context.Background(), store.TokenCredential, token); err != nil {
		return err
	}
	fmt.Println("Token stored.")
	return nil
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show where the ADS API token comes from",
	RunE:  runTokenShow,
}

func runTokenShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	token, err := st.Credential(context.Background(), store.TokenCredential)
	if err != nil {
		return err
	}
	switch {
	case token != "":
		fmt.Printf("Token stored in database (%s)\n", maskToken(token))
	case loadedSecrets[secrets.TokenKey] != "":
		fmt.Println("Token loaded from .secrets/ads-api-token")
	default:
		fmt.Println("No token configured. Run 'myads token set'.")
	}
	return nil
}

// maskToken shows just enough of the token to recognize it.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)

	rootCmd.AddCommand(tokenCmd)
}
