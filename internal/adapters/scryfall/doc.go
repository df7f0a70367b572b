// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

// Package scryfall adapts the Scryfall REST API into normalized cards for
// the MTG catalog. Scryfall serves one object per printing; the mapper
// regroups printings under their oracle identity and disambiguates
// collector-number collisions before the engine ever sees them.
package scryfall
