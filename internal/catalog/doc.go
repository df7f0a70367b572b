// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package catalog is the DuckDB persistence layer for cards, prints, SKUs,
// and ETL jobs.
//
// Card imports run as single transactions built on ON CONFLICT DO NOTHING
// against the unique oracle_hash, print_hash, and sku constraints, with
// RowsAffected distinguishing genuinely new rows from replays. That makes
// every import idempotent without read-before-write races.
package catalog
