// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package scryfall

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cardexhq/cardex/internal/models"
)

// knownSupertypes are the MTG supertypes split off the front of a type line.
var knownSupertypes = map[string]bool{
	"Basic":     true,
	"Legendary": true,
	"Ongoing":   true,
	"Snow":      true,
	"World":     true,
}

// imageTierNames maps Scryfall image_uris keys to catalog tiers. The key
// names happen to coincide.
var imageTierNames = map[string]models.ImageTier{
	"png":      models.ImageTierPNG,
	"large":    models.ImageTierLarge,
	"normal":   models.ImageTierNormal,
	"small":    models.ImageTierSmall,
	"art_crop": models.ImageTierArtCrop,
}

// mapCards groups Scryfall printings by oracle identity and converts each
// group into one normalized card with all its prints.
func mapCards(entries []cardEntry) []*models.UniversalCard {
	index := make(map[string]int, len(entries))
	var cards []*models.UniversalCard

	for i := range entries {
		entry := &entries[i]

		key := entry.OracleID
		if key == "" {
			// Rare: tokens and some promos lack an oracle id. Fall back to
			// the name, which is stable within one search.
			key = "name:" + entry.Name
		}

		idx, ok := index[key]
		if !ok {
			index[key] = len(cards)
			cards = append(cards, mapCard(entry))
			idx = len(cards) - 1
		}

		card := cards[idx]
		card.Prints = append(card.Prints, mapPrint(entry))
		addLanguage(card, entry.Lang)
	}

	for _, card := range cards {
		disambiguateCollectorNumbers(card)
	}
	return cards
}

// mapCard builds the card-level (printing-independent) fields from the first
// printing seen for an oracle identity.
func mapCard(entry *cardEntry) *models.UniversalCard {
	supertypes, primary, subtypes := parseTypeLine(entry.TypeLine)

	gameFields := map[string]string{}
	if entry.ManaCost != "" {
		gameFields["mana_cost"] = entry.ManaCost
	}
	gameFields["cmc"] = strconv.FormatFloat(entry.CMC, 'f', -1, 64)

	return &models.UniversalCard{
		OracleID:    entry.OracleID,
		GameCode:    gameCode,
		Name:        entry.Name,
		PrimaryType: primary,
		Supertypes:  supertypes,
		Subtypes:    subtypes,
		Keywords:    entry.Keywords,
		OracleText:  entry.OracleText,
		FlavorText:  entry.FlavorText,
		GameFields:  gameFields,
	}
}

func mapPrint(entry *cardEntry) models.UniversalPrint {
	print := models.UniversalPrint{
		SetCode:         strings.ToUpper(entry.Set),
		SetName:         entry.SetName,
		CollectorNumber: entry.CollectorNumber,
		Rarity:          entry.Rarity,
		Language:        strings.ToUpper(entry.Lang),
		Artist:          entry.Artist,
		Foil:            entry.Foil,
		AltArt:          entry.FullArt,
		Promo:           entry.Promo,
		Legalities:      entry.Legalities,
	}

	if len(entry.ImageURIs) > 0 {
		print.ImageURLs = make(map[models.ImageTier]string, len(entry.ImageURIs))
		for name, uri := range entry.ImageURIs {
			if tier, ok := imageTierNames[name]; ok && uri != "" {
				print.ImageURLs[tier] = uri
			}
		}
	}

	if snapshot := mapPrices(entry); snapshot != nil {
		print.Prices = snapshot
	}
	return print
}

func mapPrices(entry *cardEntry) *models.PriceSnapshot {
	normal := parsePrice(entry.Prices.USD)
	foil := parsePrice(entry.Prices.USDFoil)
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

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseTypeLine splits an MTG type line into supertypes, the primary type,
// and subtypes. Multi-face type lines keep only the front face.
func parseTypeLine(typeLine string) (supertypes []string, primary string, subtypes []string) {
	if i := strings.Index(typeLine, "//"); i >= 0 {
		typeLine = typeLine[:i]
	}

	parts := strings.SplitN(typeLine, "—", 2)
	for _, word := range strings.Fields(parts[0]) {
		if knownSupertypes[word] {
			supertypes = append(supertypes, word)
			continue
		}
		if primary == "" {
			primary = word
		}
	}
	if len(parts) == 2 {
		subtypes = strings.Fields(parts[1])
	}
	return supertypes, primary, subtypes
}

func addLanguage(card *models.UniversalCard, lang string) {
	if lang == "" {
		return
	}
	lang = strings.ToUpper(lang)
	for _, l := range card.Languages {
		if l == lang {
			return
		}
	}
	card.Languages = append(card.Languages, lang)
	sort.Strings(card.Languages)
}

// disambiguateCollectorNumbers suffixes collector numbers that would
// otherwise collide within a card. Print identity downstream is
// (set, collector number, artist); variant printings the provider
// distinguishes some other way must be separated here. The suffix carries
// no hyphen: collector numbers become SKU segments, and a hyphen inside a
// segment would break SKU parsing.
func disambiguateCollectorNumbers(card *models.UniversalCard) {
	seen := make(map[string]int, len(card.Prints))
	for i := range card.Prints {
		p := &card.Prints[i]
		key := p.SetCode + "/" + p.CollectorNumber + "/" + p.Artist + "/" + p.Language
		n := seen[key]
		seen[key] = n + 1
		if n > 0 {
			p.CollectorNumber = fmt.Sprintf("%sV%d", p.CollectorNumber, n+1)
		}
	}
}
