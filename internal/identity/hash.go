// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/cardexhq/cardex/internal/models"
)

// hashSeparator joins serialized fields before digesting. The unit separator
// cannot appear in card text, so field boundaries stay unambiguous.
const hashSeparator = "\x1f"

// OracleHash computes the content fingerprint of a card's canonical identity.
// Inputs are lower-cased and whitespace-normalized so provider formatting
// drift (casing, stray spaces, line endings) never creates duplicate cards.
// Two cards with identical semantic content hash identically regardless of
// source or run.
func OracleHash(name, primaryType, oracleText string, gameFields map[string]string) string {
	parts := []string{
		normalize(name),
		normalize(primaryType),
		normalize(oracleText),
	}

	// Game fields join in sorted key order so map iteration order never
	// leaks into the digest.
	keys := make([]string, 0, len(gameFields))
	for k := range gameFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, normalize(k)+"="+normalize(gameFields[k]))
	}

	return digest(parts)
}

// OracleHashFor computes the oracle hash of a canonical card.
func OracleHashFor(card *models.UniversalCard) string {
	return OracleHash(card.Name, card.PrimaryType, card.OracleText, card.GameFields)
}

// PrintHash computes the fingerprint identifying one physical printing.
// The artist defaults to the empty string when absent; collector-number
// collisions across variants must be disambiguated upstream by adapters.
func PrintHash(oracleHash, setCode, collectorNumber, artist string) string {
	return digest([]string{
		oracleHash,
		normalize(setCode),
		normalize(collectorNumber),
		normalize(artist),
	})
}

// PrintHashFor computes the print hash of a print under the given oracle hash.
func PrintHashFor(oracleHash string, print *models.UniversalPrint) string {
	return PrintHash(oracleHash, print.SetCode, print.CollectorNumber, print.Artist)
}

// NormalizeName lowercases and collapses whitespace in a card name, producing
// the normalized_name column value used for case-insensitive lookups.
func NormalizeName(name string) string {
	return normalize(name)
}

// normalize lower-cases and collapses all interior whitespace to single
// spaces, trimming the ends.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// digest joins the parts and returns the SHA-256 hex fingerprint.
func digest(parts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, hashSeparator)))
	return hex.EncodeToString(sum[:])
}
