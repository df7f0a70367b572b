// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/identity"
	"github.com/cardexhq/cardex/internal/models"
)

// testStoreSemaphore serializes store creation; concurrent DuckDB CGO setup
// can hang under CI resource pressure.
var testStoreSemaphore = make(chan struct{}, 1)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	testStoreSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testStoreSemaphore
	})

	s, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("store close: %v", err)
		}
	})
	return s
}

func boltCard() *models.UniversalCard {
	card := &models.UniversalCard{
		OracleID:    "b1f3f6d3",
		GameCode:    "MTG",
		Name:        "Lightning Bolt",
		PrimaryType: "Instant",
		OracleText:  "Lightning Bolt deals 3 damage to any target.",
		GameFields:  map[string]string{"mana_cost": "{R}", "cmc": "1"},
		Prints: []models.UniversalPrint{
			{
				SetCode:         "LEA",
				SetName:         "Limited Edition Alpha",
				CollectorNumber: "161",
				Rarity:          "common",
				Artist:          "Christopher Rush",
				ImageURLs: map[models.ImageTier]string{
					models.ImageTierPNG: "https://img/bolt.png",
				},
			},
		},
	}
	card.OracleHash = identity.OracleHashFor(card)
	card.NormalizedName = identity.NormalizeName(card.Name)
	for i := range card.Prints {
		card.Prints[i].PrintHash = identity.PrintHashFor(card.OracleHash, &card.Prints[i])
	}
	return card
}

func skuMatrixFor(card *models.UniversalCard) map[string][]models.SKU {
	skus := make(map[string][]models.SKU, len(card.Prints))
	for i := range card.Prints {
		p := &card.Prints[i]
		skus[p.PrintHash] = identity.SKUMatrix(card.GameCode, p.SetCode, p.CollectorNumber, card.Languages, p.Foil)
	}
	return skus
}

func TestImportCard(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	card := boltCard()

	outcome, err := s.ImportCard(ctx, card, skuMatrixFor(card), false)
	if err != nil {
		t.Fatalf("ImportCard: %v", err)
	}
	if !outcome.CardCreated {
		t.Error("first import did not create the card")
	}
	if outcome.PrintsCreated != 1 {
		t.Errorf("prints created = %d, want 1", outcome.PrintsCreated)
	}
	if outcome.SKUsCreated != 5 {
		t.Errorf("SKUs created = %d, want 5 (non-foil, single language)", outcome.SKUsCreated)
	}
	if len(outcome.NewPrintHashes) != 1 || outcome.NewPrintHashes[0] != card.Prints[0].PrintHash {
		t.Errorf("new print hashes = %v, want the bolt print", outcome.NewPrintHashes)
	}

	rec, err := s.GetCardByOracleHash(ctx, card.OracleHash)
	if err != nil {
		t.Fatalf("GetCardByOracleHash: %v", err)
	}
	if rec == nil {
		t.Fatal("imported card not found by oracle hash")
	}
	if rec.Name != "Lightning Bolt" || rec.GameCode != "MTG" {
		t.Errorf("stored card = %+v, want Lightning Bolt/MTG", rec)
	}
}

func TestImportCardIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	card := boltCard()

	if _, err := s.ImportCard(ctx, card, skuMatrixFor(card), false); err != nil {
		t.Fatalf("first import: %v", err)
	}

	outcome, err := s.ImportCard(ctx, card, skuMatrixFor(card), false)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if outcome.CardCreated || outcome.PrintsCreated != 0 || outcome.SKUsCreated != 0 {
		t.Errorf("replay wrote rows: %+v, want all-zero outcome", outcome)
	}

	n, err := s.CountCards(ctx, "MTG")
	if err != nil {
		t.Fatalf("CountCards: %v", err)
	}
	if n != 1 {
		t.Errorf("card count = %d, want 1", n)
	}
}

func TestImportCardAddsOnlyNewPrints(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	card := boltCard()

	if _, err := s.ImportCard(ctx, card, skuMatrixFor(card), false); err != nil {
		t.Fatalf("first import: %v", err)
	}

	// Same card resurfaces with an additional printing.
	card.Prints = append(card.Prints, models.UniversalPrint{
		SetCode:         "LEB",
		SetName:         "Limited Edition Beta",
		CollectorNumber: "162",
		Artist:          "Christopher Rush",
		Foil:            true,
	})
	card.Prints[1].PrintHash = identity.PrintHashFor(card.OracleHash, &card.Prints[1])

	outcome, err := s.ImportCard(ctx, card, skuMatrixFor(card), false)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if outcome.CardCreated {
		t.Error("existing card reported as created")
	}
	if outcome.PrintsCreated != 1 {
		t.Errorf("prints created = %d, want only the new Beta print", outcome.PrintsCreated)
	}
	if outcome.SKUsCreated != 10 {
		t.Errorf("SKUs created = %d, want 10 (foil doubles the matrix)", outcome.SKUsCreated)
	}
}

func TestImportCardForceRefreshesExistingPrints(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	card := boltCard()

	oldPrice := 1.50
	card.Prints[0].Prices = &models.PriceSnapshot{Currency: "USD", Normal: &oldPrice, FetchedAt: time.Now()}
	if _, err := s.ImportCard(ctx, card, skuMatrixFor(card), false); err != nil {
		t.Fatalf("first import: %v", err)
	}

	// The provider resurfaces the same print with fresh prices, a better
	// image, and a foil variant.
	newPrice := 4.25
	card.Prints[0].Prices = &models.PriceSnapshot{Currency: "USD", Normal: &newPrice, FetchedAt: time.Now()}
	card.Prints[0].ImageURLs[models.ImageTierLarge] = "https://img/bolt-large.jpg"
	card.Prints[0].Foil = true

	outcome, err := s.ImportCard(ctx, card, skuMatrixFor(card), true)
	if err != nil {
		t.Fatalf("forced import: %v", err)
	}
	if outcome.CardCreated || outcome.PrintsCreated != 0 {
		t.Errorf("forced replay reported new rows: %+v", outcome)
	}
	if outcome.PrintsRefreshed != 1 {
		t.Errorf("prints refreshed = %d, want 1", outcome.PrintsRefreshed)
	}
	if outcome.SKUsCreated != 5 {
		t.Errorf("SKUs created = %d, want the 5 new foil SKUs", outcome.SKUsCreated)
	}

	var price float64
	var foil bool
	err = s.conn.QueryRowContext(ctx,
		`SELECT price_normal, foil FROM prints WHERE print_hash = ?`, card.Prints[0].PrintHash).
		Scan(&price, &foil)
	if err != nil {
		t.Fatalf("readback: %v", err)
	}
	if price != newPrice {
		t.Errorf("stored price = %v, want %v after forced refresh", price, newPrice)
	}
	if !foil {
		t.Error("foil flag not refreshed")
	}
}

func TestImportCardRollsBackOnMidTransactionFailure(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	card := boltCard()

	// Break the last table the transaction touches, so the card, set, and
	// print writes land first and the SKU insert then fails.
	if _, err := s.conn.ExecContext(ctx, `DROP TABLE skus`); err != nil {
		t.Fatalf("drop skus: %v", err)
	}

	_, err := s.ImportCard(ctx, card, skuMatrixFor(card), false)
	if err == nil {
		t.Fatal("import with a broken schema succeeded")
	}
	if fault := models.ClassifyError(err); fault != models.FaultDatabase {
		t.Errorf("fault = %s, want database_error", fault)
	}

	rec, err := s.GetCardByOracleHash(ctx, card.OracleHash)
	if err != nil {
		t.Fatalf("GetCardByOracleHash: %v", err)
	}
	if rec != nil {
		t.Errorf("card row survived the rollback: %+v", rec)
	}

	var prints, sets int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM prints`).Scan(&prints); err != nil {
		t.Fatalf("count prints: %v", err)
	}
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sets`).Scan(&sets); err != nil {
		t.Fatalf("count sets: %v", err)
	}
	if prints != 0 || sets != 0 {
		t.Errorf("rollback left %d prints and %d sets behind", prints, sets)
	}
}

func TestGetPrintHashes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	card := boltCard()

	if _, err := s.ImportCard(ctx, card, skuMatrixFor(card), false); err != nil {
		t.Fatalf("import: %v", err)
	}
	rec, err := s.GetCardByOracleHash(ctx, card.OracleHash)
	if err != nil || rec == nil {
		t.Fatalf("card lookup failed: %v", err)
	}

	hashes, err := s.GetPrintHashes(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetPrintHashes: %v", err)
	}
	if len(hashes) != 1 || !hashes[card.Prints[0].PrintHash] {
		t.Errorf("print hashes = %v, want the bolt print hash", hashes)
	}
}

func TestUpdatePrintImageStatus(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	card := boltCard()

	if _, err := s.ImportCard(ctx, card, skuMatrixFor(card), false); err != nil {
		t.Fatalf("import: %v", err)
	}

	hash := card.Prints[0].PrintHash
	if err := s.UpdatePrintImageStatus(ctx, hash, models.ImageStatusDispatched, "https://img/bolt.png"); err != nil {
		t.Fatalf("UpdatePrintImageStatus: %v", err)
	}

	var status, url string
	err := s.conn.QueryRowContext(ctx,
		`SELECT image_status, selected_image_url FROM prints WHERE print_hash = ?`, hash).
		Scan(&status, &url)
	if err != nil {
		t.Fatalf("readback: %v", err)
	}
	if status != models.ImageStatusDispatched || url != "https://img/bolt.png" {
		t.Errorf("stored status/url = %s/%s", status, url)
	}
}

func TestGetCardByOracleHashMissing(t *testing.T) {
	s := setupTestStore(t)
	rec, err := s.GetCardByOracleHash(context.Background(), "no-such-hash")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec != nil {
		t.Errorf("missing card returned %+v", rec)
	}
}
