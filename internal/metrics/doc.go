// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package metrics registers the Prometheus collectors for the ingestion
// pipeline and wraps them in small record helpers so callers never touch
// label plumbing directly.
package metrics
