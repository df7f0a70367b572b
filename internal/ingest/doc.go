// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package ingest is the ingestion engine: it pulls normalized cards from
// source adapters and drives them into the catalog.
//
// The pipeline per card is validate, hash, diff against stored prints, write
// one atomic transaction, then dispatch image tasks post-commit. Retryable
// faults get exponential backoff gated by per-(game, fault) circuit
// breakers; validation faults fail immediately. The batch coordinator runs a
// bounded worker pool, serializes duplicate content hashes within a batch,
// and honors cancellation between batches. Every run is recorded as an ETL
// job row from start to terminal status.
package ingest
