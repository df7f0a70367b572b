// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package adapters

import (
	"testing"

	"github.com/cardexhq/cardex/internal/config"
)

func TestNew(t *testing.T) {
	cfg := config.Default()

	for _, game := range Games() {
		adapter, err := New(game, cfg)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", game, err)
		}
		if adapter.GameCode() != game {
			t.Errorf("adapter for %s reports game code %s", game, adapter.GameCode())
		}
	}

	// Case-insensitive lookup.
	if _, err := New("mtg", cfg); err != nil {
		t.Errorf("lowercase game code rejected: %v", err)
	}

	if _, err := New("YGO", cfg); err == nil {
		t.Error("unknown game code accepted")
	}
}
