// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package pokemontcg

import (
	"strings"
	"testing"

	"github.com/cardexhq/cardex/internal/models"
)

func pikachuEntry() cardEntry {
	e := cardEntry{
		ID:        "base1-58",
		Name:      "Pikachu",
		Supertype: "Pokémon",
		Subtypes:  []string{"Basic"},
		HP:        "40",
		Types:     []string{"Lightning"},
		Number:    "58",
		Artist:    "Mitsuhiro Arita",
		Rarity:    "Common",
	}
	e.Set.ID = "base1"
	e.Set.Name = "Base"
	e.Attacks = []struct {
		Name   string `json:"name"`
		Text   string `json:"text"`
		Damage string `json:"damage"`
	}{
		{Name: "Gnaw", Damage: "10"},
		{Name: "Thunder Jolt", Damage: "30", Text: "Flip a coin. If tails, Pikachu does 10 damage to itself."},
	}
	e.Images.Small = "https://images.pokemontcg.io/base1/58.png"
	e.Images.Large = "https://images.pokemontcg.io/base1/58_hires.png"
	return e
}

func TestMapCardOneCardOnePrint(t *testing.T) {
	entry := pikachuEntry()
	card := mapCard(&entry)

	if card.GameCode != "PKM" {
		t.Errorf("game code = %s, want PKM", card.GameCode)
	}
	if card.Name != "Pikachu" || card.PrimaryType != "Pokémon" {
		t.Errorf("card = %s/%s", card.Name, card.PrimaryType)
	}
	if len(card.Prints) != 1 {
		t.Fatalf("got %d prints, want exactly 1 per entry", len(card.Prints))
	}

	print := card.Prints[0]
	if print.SetCode != "BASE1" || print.CollectorNumber != "58" {
		t.Errorf("print = %s/%s", print.SetCode, print.CollectorNumber)
	}
	if print.Language != "EN" {
		t.Errorf("language = %s, want EN", print.Language)
	}
	if print.ImageURLs[models.ImageTierLarge] != "https://images.pokemontcg.io/base1/58_hires.png" {
		t.Errorf("large tier = %s", print.ImageURLs[models.ImageTierLarge])
	}
	if _, ok := print.ImageURLs[models.ImageTierPNG]; ok {
		t.Error("png tier set; provider only serves small and large")
	}
}

func TestMapGameFields(t *testing.T) {
	entry := pikachuEntry()
	entry.EvolvesFrom = "Pichu"

	fields := mapGameFields(&entry)
	if fields["hp"] != "40" || fields["types"] != "Lightning" || fields["evolves_from"] != "Pichu" {
		t.Errorf("game fields = %v", fields)
	}

	trainer := cardEntry{Name: "Bill", Supertype: "Trainer"}
	if mapGameFields(&trainer) != nil {
		t.Error("trainer with no combat stats should have nil game fields")
	}
}

func TestBuildOracleText(t *testing.T) {
	entry := pikachuEntry()
	text := buildOracleText(&entry)

	if !strings.Contains(text, "Gnaw (10)") {
		t.Errorf("attack without text missing: %q", text)
	}
	if !strings.Contains(text, "Thunder Jolt (30): Flip a coin.") {
		t.Errorf("attack with text missing: %q", text)
	}

	trainer := cardEntry{Rules: []string{"Draw 7 cards."}}
	if got := buildOracleText(&trainer); got != "Draw 7 cards." {
		t.Errorf("rules text = %q", got)
	}
}

func TestIsHolo(t *testing.T) {
	if !isHolo("Rare Holo") || !isHolo("Rare Holo EX") {
		t.Error("holo rarities not detected")
	}
	if isHolo("Common") || isHolo("Rare") {
		t.Error("non-holo rarity detected as holo")
	}
}

func TestMapPrices(t *testing.T) {
	entry := pikachuEntry()
	entry.TCGPlayer.Prices = map[string]struct {
		Market float64 `json:"market"`
	}{
		"normal":   {Market: 2.5},
		"holofoil": {Market: 40},
	}

	snapshot := mapPrices(&entry)
	if snapshot == nil {
		t.Fatal("no snapshot for priced entry")
	}
	if snapshot.Normal == nil || *snapshot.Normal != 2.5 {
		t.Errorf("normal = %v", snapshot.Normal)
	}
	if snapshot.Foil == nil || *snapshot.Foil != 40 {
		t.Errorf("foil = %v", snapshot.Foil)
	}

	unpriced := pikachuEntry()
	if mapPrices(&unpriced) != nil {
		t.Error("unpriced entry produced a snapshot")
	}
}
