// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the myads CLI, a local citation
// tracker backed by the ADS bibliographic search API. Tracked authors and
// their publication snapshots live in a SQLite database; each check pass
// reconciles the snapshot against fresh API results.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stuartmcalpine/myADS/internal/ads"
	"github.com/stuartmcalpine/myADS/internal/secrets"
	"github.com/stuartmcalpine/myADS/internal/store"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup. The
// secrets directory is a fallback; the primary token source is the
// credentials table in the snapshot store.
var loadedSecrets map[string]string

// rootCmd is the base command for the myads CLI.
var rootCmd = &cobra.Command{
	Use:   "myads",
	Short: "Track citations of your academic publications via ADS",
	Long: `myads tracks the citation record of a set of authors against the ADS
bibliographic database. Publications are matched by ORCID or first-author
name, ambiguous co-authorships are confirmed interactively, and every check
pass reports new papers, citation-count changes, and new citing papers.

The snapshot lives in a local SQLite database; nothing is removed from it
without explicit confirmation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./myads.yaml or ~/.config/myads/myads.yaml)")
	rootCmd.PersistentFlags().String("db", "", "snapshot database path (default: ~/.config/myads/myads.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("myads")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "myads"))
		}
	}

	viper.SetDefault("ads.rows", 2000)
	viper.SetDefault("ads.timeout", "30s")
	viper.SetDefault("ads.requests_per_second", 2.0)
	viper.SetDefault("tracker.recency_window_days", 90)

	viper.SetEnvPrefix("MYADS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// databasePath resolves the snapshot location: --db flag, then config,
// then the default under ~/.config/myads/.
func databasePath() string {
	if p, _ := rootCmd.PersistentFlags().GetString("db"); p != "" {
		return p
	}
	if p := viper.GetString("tracker.database_path"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "myads.db"
	}
	return filepath.Join(home, ".config", "myads", "myads.db")
}

func openStore() (*store.Store, error) {
	return store.Open(databasePath())
}

func trackerConfig() types.TrackerConfig {
	return types.TrackerConfig{
		DatabasePath:      databasePath(),
		RecencyWindowDays: viper.GetInt("tracker.recency_window_days"),
	}
}

// resolveToken looks for the ADS API token: credentials table first, then
// the .secrets/ fallback, then MYADS_TOKEN.
func resolveToken(ctx context.Context, st *store.Store) (string, error) {
	token, err := st.Credential(ctx, store.TokenCredential)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}
	if token = loadedSecrets[secrets.TokenKey]; token != "" {
		return token, nil
	}
	if token = viper.GetString("token"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("no ADS API token configured: run 'myads token set' first")
}

func adsClient(ctx context.Context, st *store.Store, rows int) (*ads.Client, error) {
	token, err := resolveToken(ctx, st)
	if err != nil {
		return nil, err
	}

	timeout := viper.GetDuration("ads.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if rows <= 0 {
		rows = viper.GetInt("ads.rows")
	}

	cfg := types.ADSConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "myads/" + version,
		},
		Token:             token,
		Rows:              rows,
		RequestsPerSecond: viper.GetFloat64("ads.requests_per_second"),
	}
	return ads.NewClient(cfg), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
