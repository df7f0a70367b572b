// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package identity

import (
	"testing"

	"github.com/cardexhq/cardex/internal/models"
)

func TestOracleHash(t *testing.T) {
	base := func() (string, string, string, map[string]string) {
		return "Lightning Bolt", "Instant", "Lightning Bolt deals 3 damage to any target.", map[string]string{"mana_cost": "{R}", "cmc": "1"}
	}

	t.Run("deterministic across calls", func(t *testing.T) {
		n, pt, txt, gf := base()
		if OracleHash(n, pt, txt, gf) != OracleHash(n, pt, txt, gf) {
			t.Error("same input produced different hashes")
		}
	})

	t.Run("invariant to case", func(t *testing.T) {
		n, pt, txt, gf := base()
		h1 := OracleHash(n, pt, txt, gf)
		h2 := OracleHash("LIGHTNING BOLT", "INSTANT", "lightning bolt DEALS 3 damage to any target.", gf)
		if h1 != h2 {
			t.Errorf("case change altered hash: %s vs %s", h1, h2)
		}
	})

	t.Run("invariant to surrounding and interior whitespace", func(t *testing.T) {
		n, pt, txt, gf := base()
		h1 := OracleHash(n, pt, txt, gf)
		h2 := OracleHash("  Lightning   Bolt ", pt, "Lightning Bolt deals 3 damage\nto any target.  ", gf)
		if h1 != h2 {
			t.Errorf("whitespace change altered hash: %s vs %s", h1, h2)
		}
	})

	t.Run("invariant to game-field map ordering", func(t *testing.T) {
		n, pt, txt, _ := base()
		h1 := OracleHash(n, pt, txt, map[string]string{"a": "1", "b": "2", "c": "3"})
		h2 := OracleHash(n, pt, txt, map[string]string{"c": "3", "b": "2", "a": "1"})
		if h1 != h2 {
			t.Error("map ordering altered hash")
		}
	})

	t.Run("changing any semantic field changes the hash", func(t *testing.T) {
		n, pt, txt, gf := base()
		h := OracleHash(n, pt, txt, gf)

		if OracleHash("Shock", pt, txt, gf) == h {
			t.Error("name change did not alter hash")
		}
		if OracleHash(n, "Sorcery", txt, gf) == h {
			t.Error("type change did not alter hash")
		}
		if OracleHash(n, pt, "Shock deals 2 damage to any target.", gf) == h {
			t.Error("text change did not alter hash")
		}
		if OracleHash(n, pt, txt, map[string]string{"mana_cost": "{1}{R}", "cmc": "2"}) == h {
			t.Error("game-field change did not alter hash")
		}
	})

	t.Run("empty fields still hash", func(t *testing.T) {
		if OracleHash("", "", "", nil) == "" {
			t.Error("empty input produced empty hash")
		}
		if len(OracleHash("x", "", "", nil)) != 64 {
			t.Error("hash is not a SHA-256 hex digest")
		}
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		// "ab" + "c" must not collide with "a" + "bc".
		if OracleHash("ab", "c", "", nil) == OracleHash("a", "bc", "", nil) {
			t.Error("adjacent fields collided")
		}
	})
}

func TestPrintHash(t *testing.T) {
	oracle := OracleHash("Lightning Bolt", "Instant", "deals 3 damage", nil)

	t.Run("deterministic", func(t *testing.T) {
		h1 := PrintHash(oracle, "LEA", "161", "Christopher Rush")
		h2 := PrintHash(oracle, "LEA", "161", "Christopher Rush")
		if h1 != h2 {
			t.Error("same input produced different hashes")
		}
	})

	t.Run("distinct per set and collector number", func(t *testing.T) {
		h1 := PrintHash(oracle, "LEA", "161", "Christopher Rush")
		if PrintHash(oracle, "LEB", "161", "Christopher Rush") == h1 {
			t.Error("set change did not alter hash")
		}
		if PrintHash(oracle, "LEA", "162", "Christopher Rush") == h1 {
			t.Error("collector number change did not alter hash")
		}
	})

	t.Run("artist defaults to empty", func(t *testing.T) {
		h1 := PrintHash(oracle, "LEA", "161", "")
		h2 := PrintHashFor(oracle, &models.UniversalPrint{SetCode: "LEA", CollectorNumber: "161"})
		if h1 != h2 {
			t.Error("PrintHashFor with absent artist diverged from explicit empty artist")
		}
	})
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Lightning Bolt", "lightning bolt"},
		{"  Jace,   the Mind\tSculptor ", "jace, the mind sculptor"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
