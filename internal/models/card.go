// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package models

import "time"

// ImageTier identifies one quality tier of a print's artwork.
type ImageTier string

// Image tiers in descending quality order.
const (
	ImageTierPNG     ImageTier = "png"
	ImageTierLarge   ImageTier = "large"
	ImageTierNormal  ImageTier = "normal"
	ImageTierSmall   ImageTier = "small"
	ImageTierArtCrop ImageTier = "art_crop"
)

// ImageTierPriority lists tiers from best to worst. The image dispatcher
// selects exactly one URL per print following this order.
var ImageTierPriority = []ImageTier{
	ImageTierPNG,
	ImageTierLarge,
	ImageTierNormal,
	ImageTierSmall,
	ImageTierArtCrop,
}

// UniversalCard is the game-agnostic normalized card shape produced by source
// adapters. OracleHash and the per-print PrintHash arrive empty from adapters;
// the ingestion engine computes and fills them.
type UniversalCard struct {
	// OracleID is the adapter-assigned stable external identity
	// (e.g. Scryfall oracle_id). Informational; dedup uses OracleHash.
	OracleID string `json:"oracle_id"`

	// OracleHash is the content fingerprint computed by the engine from the
	// card's semantic content. Identical content always hashes identically
	// regardless of source or run.
	OracleHash string `json:"oracle_hash"`

	// GameCode identifies the trading-card game (e.g. MTG, PKM).
	GameCode string `json:"game_code" validate:"required"`

	Name           string `json:"name" validate:"required"`
	NormalizedName string `json:"normalized_name"`

	PrimaryType string   `json:"primary_type"`
	Supertypes  []string `json:"supertypes,omitempty"`
	Subtypes    []string `json:"subtypes,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`

	OracleText string `json:"oracle_text,omitempty"`
	FlavorText string `json:"flavor_text,omitempty"`

	// GameFields is an opaque extension bag of game-specific scalar fields
	// (mana cost, HP, attack/defense, cost/power/counter, ...). The engine
	// hashes and persists it without interpreting individual keys;
	// interpretation belongs to the adapter that produced it.
	GameFields map[string]string `json:"game_fields,omitempty"`

	// Languages lists the languages the adapter knows printings exist in.
	// Empty means English only; used for SKU matrix generation.
	Languages []string `json:"languages,omitempty"`

	Prints []UniversalPrint `json:"prints" validate:"dive"`
}

// UniversalPrint is one physical printing of a card.
type UniversalPrint struct {
	// PrintHash is computed by the engine from
	// (oracleHash, setCode, collectorNumber, artist). Its uniqueness is the
	// sole criterion for "this printing already exists"; adapters must
	// disambiguate collector-number collisions upstream.
	PrintHash string `json:"print_hash"`

	SetCode string `json:"set_code" validate:"required"`
	SetName string `json:"set_name"`

	// CollectorNumber is the in-set number, with any adapter-side variant
	// disambiguation (promo suffixes, rarity codes) already embedded.
	CollectorNumber string `json:"collector_number" validate:"required"`

	Rarity   string `json:"rarity,omitempty"`
	Language string `json:"language,omitempty"`
	Finish   string `json:"finish,omitempty"`
	Artist   string `json:"artist,omitempty"`

	Foil   bool `json:"foil"`
	AltArt bool `json:"alt_art"`
	Promo  bool `json:"promo"`

	// ImageURLs maps quality tier to artwork URL.
	ImageURLs map[ImageTier]string `json:"image_urls,omitempty"`

	// Legalities maps format name to legality (legal, banned, restricted, ...).
	Legalities map[string]string `json:"legalities,omitempty"`

	// Prices is the provider's price snapshot at fetch time, if any.
	Prices *PriceSnapshot `json:"prices,omitempty"`
}

// PriceSnapshot captures provider pricing at fetch time.
type PriceSnapshot struct {
	Currency  string    `json:"currency"`
	Normal    *float64  `json:"normal,omitempty"`
	Foil      *float64  `json:"foil,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ImageStatus values persisted on print rows to track dispatch outcomes.
const (
	ImageStatusPending    = "pending"
	ImageStatusDispatched = "dispatched"
	ImageStatusFailed     = "dispatch_failed"
	ImageStatusNone       = "no_image"
)
