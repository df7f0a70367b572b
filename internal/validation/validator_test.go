// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/cardexhq/cardex/internal/models"
)

func validCard() *models.UniversalCard {
	return &models.UniversalCard{
		GameCode:    "MTG",
		Name:        "Lightning Bolt",
		PrimaryType: "Instant",
		OracleText:  "Lightning Bolt deals 3 damage to any target.",
		Prints: []models.UniversalPrint{
			{SetCode: "LEA", CollectorNumber: "161", Artist: "Christopher Rush"},
		},
	}
}

func TestValidateCard(t *testing.T) {
	t.Run("accepts a complete card", func(t *testing.T) {
		if err := ValidateCard(validCard()); err != nil {
			t.Errorf("ValidateCard returned %v, want nil", err)
		}
	})

	t.Run("rejects nil", func(t *testing.T) {
		err := ValidateCard(nil)
		if err == nil {
			t.Fatal("nil card passed validation")
		}
		if models.ClassifyError(err) != models.FaultValidation {
			t.Errorf("fault = %s, want validation", models.ClassifyError(err))
		}
	})

	t.Run("rejects missing name and game code", func(t *testing.T) {
		card := validCard()
		card.Name = ""
		card.GameCode = ""
		err := ValidateCard(card)
		if err == nil {
			t.Fatal("card without name passed validation")
		}
		msg := err.Error()
		if !strings.Contains(msg, "Name") || !strings.Contains(msg, "GameCode") {
			t.Errorf("message %q does not name both failing fields", msg)
		}
	})

	t.Run("rejects card with no prints", func(t *testing.T) {
		card := validCard()
		card.Prints = nil
		err := ValidateCard(card)
		if err == nil {
			t.Fatal("printless card passed validation")
		}
		var ve *CardValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("error is %T, want *CardValidationError inside the fault", err)
		}
		if ve.Errors()[0].Field() != "Prints" {
			t.Errorf("field = %s, want Prints", ve.Errors()[0].Field())
		}
	})

	t.Run("rejects print missing identity fields", func(t *testing.T) {
		card := validCard()
		card.Prints[0].SetCode = ""
		card.Prints[0].CollectorNumber = ""
		err := ValidateCard(card)
		if err == nil {
			t.Fatal("print without set code passed validation")
		}
		if models.ClassifyError(err) != models.FaultValidation {
			t.Errorf("fault = %s, want validation", models.ClassifyError(err))
		}
	})

	t.Run("validation faults are not retryable", func(t *testing.T) {
		card := validCard()
		card.Name = ""
		err := ValidateCard(card)
		if models.ClassifyError(err).Retryable() {
			t.Error("validation fault reported as retryable")
		}
	})
}
