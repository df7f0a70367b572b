// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package models

// Card conditions in the order SKUs are generated.
const (
	ConditionNearMint         = "NM"
	ConditionLightlyPlayed    = "LP"
	ConditionModeratelyPlayed = "MP"
	ConditionHeavilyPlayed    = "HP"
	ConditionDamaged          = "DMG"
)

// Conditions lists all sellable conditions in generation order.
var Conditions = []string{
	ConditionNearMint,
	ConditionLightlyPlayed,
	ConditionModeratelyPlayed,
	ConditionHeavilyPlayed,
	ConditionDamaged,
}

// Print finishes.
const (
	FinishNormal = "NORMAL"
	FinishFoil   = "FOIL"
)

// DefaultLanguage is used when an adapter supplies no language list.
const DefaultLanguage = "EN"

// SKU is the tuple behind one deterministic catalog SKU string.
// FormatSKU/ParseSKU in the identity package render and recover it; the
// rendered string is bijective with the tuple.
type SKU struct {
	GameCode        string
	SetCode         string
	CollectorNumber string
	Language        string
	Condition       string
	Finish          string

	// Grade is the optional grading suffix: grading company code concatenated
	// with the grade value (e.g. PSA10). Empty for ungraded SKUs.
	Grade string
}
