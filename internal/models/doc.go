// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package models defines the canonical data shapes shared across the
// ingestion engine: the normalized UniversalCard/UniversalPrint produced by
// source adapters, the CatalogSKU tuple, ETL job records, import results, and
// the fault taxonomy used for retry and circuit-breaker decisions.
//
// The package has no behavior beyond small accessors; all hashing, SKU
// rendering, and persistence logic lives in the identity and catalog packages.
package models
