// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package pokemontcg

import (
	"context"

	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/models"
)

// gameCode is the catalog code for the Pokemon Trading Card Game.
const gameCode = "PKM"

// Adapter feeds Pokemon cards from the Pokemon TCG API into the ingestion
// engine.
type Adapter struct {
	client *Client
}

// New builds the Pokemon TCG adapter.
func New(cfg *config.ProviderConfig) *Adapter {
	return &Adapter{client: NewClient(cfg)}
}

// GameCode implements ingest.SourceAdapter.
func (a *Adapter) GameCode() string { return gameCode }

// Name implements ingest.SourceAdapter.
func (a *Adapter) Name() string { return "pokemontcg" }

// FetchCards pulls cards from the Pokemon TCG API and normalizes them.
func (a *Adapter) FetchCards(ctx context.Context, limit int) ([]*models.UniversalCard, error) {
	entries, err := a.client.ListCards(ctx, limit)
	if err != nil {
		return nil, err
	}
	cards := mapCards(entries)
	logging.Info().Int("cards", len(cards)).Msg("Pokemon TCG fetch complete")
	return cards, nil
}
