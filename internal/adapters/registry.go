// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package adapters

import (
	"fmt"
	"strings"

	"github.com/cardexhq/cardex/internal/adapters/pokemontcg"
	"github.com/cardexhq/cardex/internal/adapters/scryfall"
	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/ingest"
)

// New returns the source adapter for a game code.
func New(gameCode string, cfg *config.Config) (ingest.SourceAdapter, error) {
	switch strings.ToUpper(gameCode) {
	case "MTG":
		return scryfall.New(&cfg.Scryfall), nil
	case "PKM":
		return pokemontcg.New(&cfg.Pokemon), nil
	default:
		return nil, fmt.Errorf("unknown game code %q (supported: %s)",
			gameCode, strings.Join(Games(), ", "))
	}
}

// Games lists the supported game codes.
func Games() []string {
	return []string{"MTG", "PKM"}
}
