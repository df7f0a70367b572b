// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package config loads the engine configuration with koanf v2, layering
// environment variables over an optional YAML file over built-in defaults.
//
// Environment variables use flat names mapped to nested paths, e.g.
// INGEST_BATCH_SIZE sets ingest.batch_size and DUCKDB_PATH sets
// database.path. Only explicitly mapped variables are honored.
package config
