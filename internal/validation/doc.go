// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package validation checks normalized cards before import using
// go-playground/validator v10. A shared singleton instance caches struct
// metadata; failures surface as validation faults so the retry layer fails
// them fast instead of burning attempts.
package validation
