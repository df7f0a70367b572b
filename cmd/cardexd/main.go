// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package main is the Cardex command-line entry point.
//
// Cardex ingests trading-card catalogs from provider APIs (Scryfall for MTG,
// the Pokemon TCG API for PKM), normalizes them into a game-agnostic shape,
// and imports them into a DuckDB catalog with content-hash deduplication,
// deterministic SKU generation, and post-commit image task dispatch.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins):
//   - Environment variables (INGEST_*, DUCKDB_*, NATS_*, SCRYFALL_*, POKEMON_*, LOG_*)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Build Tags
//
//	go build -tags "nats" ./cmd/cardexd   # Enable NATS JetStream image dispatch
//
// Without the tag, image tasks are logged instead of published.
//
// # Example Usage
//
//	cardexd ingest --game MTG --limit 1000
//	cardexd ingest --game PKM --batch-size 50 --concurrency 4
//	cardexd jobs list --game MTG
//	cardexd jobs show 0d9c7f3a-...
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
