// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package ingest

import (
	"context"

	"github.com/cardexhq/cardex/internal/models"
)

// SourceAdapter fetches cards from one upstream provider and maps them to the
// normalized card shape. Adapters own all provider-specific knowledge,
// including collector-number disambiguation for variant printings; the engine
// never interprets provider formats.
type SourceAdapter interface {
	// GameCode returns the game this adapter feeds (e.g. MTG, PKM).
	GameCode() string

	// Name identifies the provider for logs and job records.
	Name() string

	// FetchCards returns up to limit normalized cards. limit <= 0 means no
	// limit. Hash fields on the returned cards are left empty; the engine
	// computes them.
	FetchCards(ctx context.Context, limit int) ([]*models.UniversalCard, error)
}
