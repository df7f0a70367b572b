// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package main

import (
	"github.com/spf13/cobra"

	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/logging"
)

// cfg is loaded once by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cardexd",
	Short: "Trading card catalog ingestion and normalization",
	Long: `Cardex ingests trading-card catalogs from provider APIs, normalizes
them into a game-agnostic shape, and imports them into a DuckDB catalog with
content-hash deduplication and deterministic SKU generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logging.Init(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Caller: cfg.Logging.Caller,
		})
		return nil
	},
}

// Execute runs the CLI. Errors are logged here so main stays trivial.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logging.Error().Err(err).Msg("Command failed")
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "override log level (debug, info, warn, error)")
}
