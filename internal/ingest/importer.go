// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package ingest

import (
	"context"
	"time"

	"github.com/cardexhq/cardex/internal/breaker"
	"github.com/cardexhq/cardex/internal/catalog"
	"github.com/cardexhq/cardex/internal/identity"
	"github.com/cardexhq/cardex/internal/imagetask"
	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/metrics"
	"github.com/cardexhq/cardex/internal/models"
	"github.com/cardexhq/cardex/internal/validation"
)

// cardImporter is one attempt at importing a single card. Extracted as an
// interface so the retry loop can be tested without a database.
type cardImporter interface {
	ImportOne(ctx context.Context, card *models.UniversalCard) (*models.CardImportResult, error)
}

// Importer performs single-card imports: validate, hash, diff against the
// stored catalog, write atomically, then dispatch image tasks post-commit.
type Importer struct {
	store      *catalog.Store
	dispatcher imagetask.Dispatcher
	breakers   *breaker.Registry
	force      bool
}

// NewImporter builds an importer. force disables the existing-card skip and
// rewrites the volatile data (prices, image URLs, legalities) of prints that
// are already stored.
func NewImporter(store *catalog.Store, dispatcher imagetask.Dispatcher, breakers *breaker.Registry, force bool) *Importer {
	return &Importer{
		store:      store,
		dispatcher: dispatcher,
		breakers:   breakers,
		force:      force,
	}
}

// ImportOne runs one import attempt for a card. On success the result status
// is created or skipped; on failure the returned error carries the fault
// classification for the retry loop.
func (i *Importer) ImportOne(ctx context.Context, card *models.UniversalCard) (*models.CardImportResult, error) {
	start := time.Now()

	if err := validation.ValidateCard(card); err != nil {
		return nil, err
	}

	card.OracleHash = identity.OracleHashFor(card)
	card.NormalizedName = identity.NormalizeName(card.Name)
	for p := range card.Prints {
		card.Prints[p].PrintHash = identity.PrintHashFor(card.OracleHash, &card.Prints[p])
	}

	prints := card.Prints
	if !i.force {
		existing, err := i.store.GetCardByOracleHash(ctx, card.OracleHash)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// Known card: import only printings we have not seen. The
			// common re-run case lands here and writes nothing.
			stored, err := i.store.GetPrintHashes(ctx, existing.ID)
			if err != nil {
				return nil, err
			}
			prints = nil
			for p := range card.Prints {
				if !stored[card.Prints[p].PrintHash] {
					prints = append(prints, card.Prints[p])
				}
			}
			if len(prints) == 0 {
				return &models.CardImportResult{
					OracleHash: card.OracleHash,
					Name:       card.Name,
					Status:     models.ImportStatusSkipped,
				}, nil
			}
		}
	}

	toImport := *card
	toImport.Prints = prints

	skus := make(map[string][]models.SKU, len(prints))
	for p := range prints {
		skus[prints[p].PrintHash] = identity.SKUMatrix(
			card.GameCode, prints[p].SetCode, prints[p].CollectorNumber,
			card.Languages, prints[p].Foil)
	}

	outcome, err := i.store.ImportCard(ctx, &toImport, skus, i.force)
	if err != nil {
		return nil, err
	}
	metrics.RecordImportDuration(card.GameCode, time.Since(start))

	i.dispatchImages(ctx, &toImport, outcome)

	status := models.ImportStatusCreated
	if !outcome.CardCreated && outcome.PrintsCreated == 0 && outcome.PrintsRefreshed == 0 {
		status = models.ImportStatusSkipped
	}
	return &models.CardImportResult{
		OracleHash:    card.OracleHash,
		Name:          card.Name,
		Status:        status,
		PrintsCreated: outcome.PrintsCreated,
		SKUsCreated:   outcome.SKUsCreated,
	}, nil
}

// dispatchImages publishes one image task per newly created print. Runs after
// the import transaction committed; failures mark the print row and feed the
// image breaker but never surface to the caller.
func (i *Importer) dispatchImages(ctx context.Context, card *models.UniversalCard, outcome *catalog.ImportOutcome) {
	if len(outcome.NewPrintHashes) == 0 {
		return
	}

	byHash := make(map[string]*models.UniversalPrint, len(card.Prints))
	for p := range card.Prints {
		byHash[card.Prints[p].PrintHash] = &card.Prints[p]
	}

	for _, hash := range outcome.NewPrintHashes {
		print := byHash[hash]
		if print == nil {
			continue
		}
		task, ok := imagetask.NewTask(card.GameCode, card.Name, print)
		if !ok {
			// Row already carries no_image from the insert.
			metrics.RecordImageDispatch(card.GameCode, "no_image")
			continue
		}

		if !i.breakers.Admit(card.GameCode, models.FaultImage) {
			i.markImageStatus(ctx, hash, models.ImageStatusFailed, task.SelectedImageURL)
			metrics.RecordImageDispatch(card.GameCode, "failed")
			continue
		}

		if err := i.dispatcher.Dispatch(ctx, task); err != nil {
			i.breakers.RecordFailure(card.GameCode, models.FaultImage, err)
			logging.Warn().Err(err).
				Str("print_hash", hash).
				Str("card", card.Name).
				Msg("Image task dispatch failed")
			i.markImageStatus(ctx, hash, models.ImageStatusFailed, task.SelectedImageURL)
			metrics.RecordImageDispatch(card.GameCode, "failed")
			continue
		}
		i.breakers.RecordSuccess(card.GameCode, models.FaultImage)
		i.markImageStatus(ctx, hash, models.ImageStatusDispatched, task.SelectedImageURL)
	}
}

func (i *Importer) markImageStatus(ctx context.Context, printHash, status, url string) {
	if err := i.store.UpdatePrintImageStatus(ctx, printHash, status, url); err != nil {
		logging.Warn().Err(err).Str("print_hash", printHash).Msg("Failed to record image status")
	}
}
