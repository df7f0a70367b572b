// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package identity

import (
	"fmt"
	"strings"

	"github.com/cardexhq/cardex/internal/models"
)

// skuSeparator joins SKU components. Components are upper-cased on render;
// adapters must not emit component values containing the separator.
const skuSeparator = "-"

// minSKUSegments is the segment count of an ungraded SKU:
// GAME-SET-NUMBER-LANG-CONDITION-FINISH.
const minSKUSegments = 6

// FormatSKU renders a SKU tuple as its canonical delimited string:
// GAME-SET-NUMBER-LANG-CONDITION-FINISH[-GRADE], all components uppercase.
//
//	MTG-DOM-001-EN-NM-NORMAL
func FormatSKU(sku models.SKU) string {
	parts := []string{
		strings.ToUpper(sku.GameCode),
		strings.ToUpper(sku.SetCode),
		strings.ToUpper(sku.CollectorNumber),
		strings.ToUpper(sku.Language),
		strings.ToUpper(sku.Condition),
		strings.ToUpper(sku.Finish),
	}
	if sku.Grade != "" {
		parts = append(parts, strings.ToUpper(sku.Grade))
	}
	return strings.Join(parts, skuSeparator)
}

// ParseSKU recovers the tuple from a rendered SKU string. It fails with a
// format error when fewer than six segments are present. For all valid
// tuples, ParseSKU(FormatSKU(x)) == x.
func ParseSKU(s string) (models.SKU, error) {
	parts := strings.Split(s, skuSeparator)
	if len(parts) < minSKUSegments {
		return models.SKU{}, fmt.Errorf("invalid SKU format %q: expected at least %d segments, got %d", s, minSKUSegments, len(parts))
	}

	sku := models.SKU{
		GameCode:        parts[0],
		SetCode:         parts[1],
		CollectorNumber: parts[2],
		Language:        parts[3],
		Condition:       parts[4],
		Finish:          parts[5],
	}
	if len(parts) > minSKUSegments {
		sku.Grade = strings.Join(parts[minSKUSegments:], skuSeparator)
	}
	return sku, nil
}

// SKUMatrix generates the full deterministic SKU set for one print:
// every condition, crossed with NORMAL plus FOIL when the print has a foil
// variant, crossed with the supplied languages (English when none given).
func SKUMatrix(gameCode, setCode, collectorNumber string, languages []string, hasFoil bool) []models.SKU {
	if len(languages) == 0 {
		languages = []string{models.DefaultLanguage}
	}

	finishes := []string{models.FinishNormal}
	if hasFoil {
		finishes = append(finishes, models.FinishFoil)
	}

	skus := make([]models.SKU, 0, len(languages)*len(models.Conditions)*len(finishes))
	for _, lang := range languages {
		for _, cond := range models.Conditions {
			for _, finish := range finishes {
				skus = append(skus, models.SKU{
					GameCode:        gameCode,
					SetCode:         setCode,
					CollectorNumber: collectorNumber,
					Language:        lang,
					Condition:       cond,
					Finish:          finish,
				})
			}
		}
	}
	return skus
}

// SelectBestImage chooses the single image URL to dispatch for a print,
// following strict tier priority (png > large > normal > small > art_crop).
// It also reports every tier the print has an URL for, so downstream
// consumers know which size variants the artwork represents. Only one URL is
// ever dispatched per print to avoid duplicate processing of size variants
// that point at the same artwork.
func SelectBestImage(urls map[models.ImageTier]string) (string, []string, bool) {
	if len(urls) == 0 {
		return "", nil, false
	}

	var selected string
	tiers := make([]string, 0, len(urls))
	for _, tier := range models.ImageTierPriority {
		url, ok := urls[tier]
		if !ok || url == "" {
			continue
		}
		if selected == "" {
			selected = url
		}
		tiers = append(tiers, string(tier))
	}
	if selected == "" {
		return "", nil, false
	}
	return selected, tiers, true
}
