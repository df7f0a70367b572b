// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package pokemontcg

import (
	"strings"
	"time"

	"github.com/cardexhq/cardex/internal/models"
)

// mapCards converts API entries into normalized cards. The provider already
// serves one card per printing, so no regrouping happens here; two printings
// of the same Pokemon with identical text dedup later by content hash.
func mapCards(entries []cardEntry) []*models.UniversalCard {
	cards := make([]*models.UniversalCard, 0, len(entries))
	for i := range entries {
		cards = append(cards, mapCard(&entries[i]))
	}
	return cards
}

func mapCard(entry *cardEntry) *models.UniversalCard {
	return &models.UniversalCard{
		OracleID:    entry.ID,
		GameCode:    gameCode,
		Name:        entry.Name,
		PrimaryType: entry.Supertype,
		Subtypes:    entry.Subtypes,
		OracleText:  buildOracleText(entry),
		FlavorText:  entry.FlavorText,
		GameFields:  mapGameFields(entry),
		Prints:      []models.UniversalPrint{mapPrint(entry)},
	}
}

// buildOracleText flattens rules, abilities, and attacks into one rules-text
// block so cards with the same gameplay content hash identically.
func buildOracleText(entry *cardEntry) string {
	var parts []string
	parts = append(parts, entry.Rules...)
	for _, a := range entry.Abilities {
		parts = append(parts, a.Type+": "+a.Name+" - "+a.Text)
	}
	for _, a := range entry.Attacks {
		line := a.Name
		if a.Damage != "" {
			line += " (" + a.Damage + ")"
		}
		if a.Text != "" {
			line += ": " + a.Text
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

func mapGameFields(entry *cardEntry) map[string]string {
	fields := map[string]string{}
	if entry.HP != "" {
		fields["hp"] = entry.HP
	}
	if len(entry.Types) > 0 {
		fields["types"] = strings.Join(entry.Types, ",")
	}
	if entry.EvolvesFrom != "" {
		fields["evolves_from"] = entry.EvolvesFrom
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func mapPrint(entry *cardEntry) models.UniversalPrint {
	print := models.UniversalPrint{
		SetCode:         strings.ToUpper(entry.Set.ID),
		SetName:         entry.Set.Name,
		CollectorNumber: entry.Number,
		Rarity:          entry.Rarity,
		Language:        "EN",
		Artist:          entry.Artist,
		Foil:            isHolo(entry.Rarity),
		Legalities:      entry.Legalities,
	}

	urls := map[models.ImageTier]string{}
	if entry.Images.Small != "" {
		urls[models.ImageTierSmall] = entry.Images.Small
	}
	if entry.Images.Large != "" {
		urls[models.ImageTierLarge] = entry.Images.Large
	}
	if len(urls) > 0 {
		print.ImageURLs = urls
	}

	if snapshot := mapPrices(entry); snapshot != nil {
		print.Prices = snapshot
	}
	return print
}

// isHolo reports whether the rarity implies a foil finish exists.
func isHolo(rarity string) bool {
	return strings.Contains(strings.ToLower(rarity), "holo")
}

func mapPrices(entry *cardEntry) *models.PriceSnapshot {
	var normal, foil *float64
	for variant, p := range entry.TCGPlayer.Prices {
		if p.Market <= 0 {
			continue
		}
		market := p.Market
		if strings.Contains(strings.ToLower(variant), "holo") {
			if foil == nil {
				foil = &market
			}
		} else if normal == nil {
			normal = &market
		}
	}
	if normal == nil && foil == nil {
		return nil
	}
	return &models.PriceSnapshot{
		Currency:  "USD",
		Normal:    normal,
		Foil:      foil,
		FetchedAt: time.Now(),
	}
}
