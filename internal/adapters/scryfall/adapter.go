// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package scryfall

import (
	"context"

	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/models"
)

// gameCode is the catalog code for Magic: The Gathering.
const gameCode = "MTG"

// defaultQuery fetches every paper-playable printing.
const defaultQuery = "game:paper"

// Adapter feeds MTG cards from Scryfall into the ingestion engine.
type Adapter struct {
	client *Client
	query  string
}

// New builds the Scryfall adapter.
func New(cfg *config.ProviderConfig) *Adapter {
	return &Adapter{
		client: NewClient(cfg),
		query:  defaultQuery,
	}
}

// GameCode implements ingest.SourceAdapter.
func (a *Adapter) GameCode() string { return gameCode }

// Name implements ingest.SourceAdapter.
func (a *Adapter) Name() string { return "scryfall" }

// FetchCards pulls printings from Scryfall and normalizes them. Printings
// sharing an oracle identity collapse into one card with multiple prints, so
// limit bounds printings fetched, not cards returned.
func (a *Adapter) FetchCards(ctx context.Context, limit int) ([]*models.UniversalCard, error) {
	entries, err := a.client.SearchCards(ctx, a.query, limit)
	if err != nil {
		return nil, err
	}
	cards := mapCards(entries)
	logging.Info().
		Int("printings", len(entries)).
		Int("cards", len(cards)).
		Msg("Scryfall fetch complete")
	return cards, nil
}
