// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package pokemontcg adapts the Pokemon TCG API v2 into normalized cards for
// the PKM catalog. Each API entry maps to one card with one print; reprints
// with identical gameplay text converge downstream by content hash.
package pokemontcg
