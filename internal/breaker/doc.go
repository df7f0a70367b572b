// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package breaker maintains one circuit breaker per (scope, fault type)
// pair so a run can stop hammering a failing dependency without stalling
// unrelated work. A database outage for one game trips only that game's
// database breaker; API and image calls keep flowing.
//
// Breaker state is process-local and resets on restart.
package breaker
