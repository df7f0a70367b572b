// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cardexhq/cardex/internal/breaker"
	"github.com/cardexhq/cardex/internal/catalog"
	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/identity"
	"github.com/cardexhq/cardex/internal/imagetask"
	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/metrics"
	"github.com/cardexhq/cardex/internal/models"
)

// Engine orchestrates full ingestion runs: fetch, batch, import with retry,
// and job lifecycle bookkeeping.
type Engine struct {
	cfg      config.IngestConfig
	store    *catalog.Store
	importer cardImporter
	breakers *breaker.Registry
}

// NewEngine wires an engine over the catalog store and image dispatcher.
func NewEngine(cfg config.IngestConfig, store *catalog.Store, dispatcher imagetask.Dispatcher) *Engine {
	breakers := breaker.NewRegistry()
	return &Engine{
		cfg:      cfg,
		store:    store,
		importer: NewImporter(store, dispatcher, breakers, cfg.Force),
		breakers: breakers,
	}
}

// Run executes one ingestion job against an adapter and returns the
// aggregated outcome. Per-card failures never abort the run; cancellation is
// honored between batches so no batch is torn mid-flight.
func (e *Engine) Run(ctx context.Context, adapter SourceAdapter, limit int) (*models.BatchImportResult, error) {
	gameCode := adapter.GameCode()

	logging.Info().
		Str("game", gameCode).
		Str("provider", adapter.Name()).
		Int("limit", limit).
		Msg("Starting ingestion run")

	cards, err := adapter.FetchCards(ctx, limit)
	if err != nil {
		fetchErr := models.NewImportError(models.FaultAPI, fmt.Errorf("fetch from %s failed: %w", adapter.Name(), err))
		// Record the aborted run for audit even though no cards moved.
		if job, jobErr := e.store.CreateJob(ctx, gameCode, "full_import", 0); jobErr == nil {
			if finErr := e.store.FinalizeJob(ctx, job.ID, models.JobStatusFailed, fetchErr.Error()); finErr != nil {
				logging.Warn().Err(finErr).Msg("Failed to finalize aborted job")
			}
		}
		return nil, fetchErr
	}

	job, err := e.store.CreateJob(ctx, gameCode, "full_import", int64(len(cards)))
	if err != nil {
		return nil, err
	}

	result := &models.BatchImportResult{
		TotalCards: int64(len(cards)),
		StartTime:  time.Now(),
	}

	// Group keys need hashes before workers touch the cards.
	for _, card := range cards {
		card.OracleHash = identity.OracleHashFor(card)
	}

	var mu sync.Mutex
	var processed int64

	for start := 0; start < len(cards); start += e.cfg.BatchSize {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		end := start + e.cfg.BatchSize
		if end > len(cards) {
			end = len(cards)
		}
		batch := cards[start:end]

		e.runBatch(ctx, batch, result, &mu)
		processed += int64(len(batch))

		if err := e.store.UpdateJobProgress(ctx, job.ID, processed); err != nil {
			logging.Warn().Err(err).Msg("Failed to update job progress")
		}

		logging.Info().
			Str("game", gameCode).
			Int64("processed", processed).
			Int64("total", result.TotalCards).
			Int64("created", result.SuccessfulCards).
			Int64("skipped", result.SkippedCards).
			Int64("failed", result.FailedCards).
			Msg("Batch complete")

		if end < len(cards) && e.cfg.InterBatchDelay > 0 {
			select {
			case <-time.After(e.cfg.InterBatchDelay):
			case <-ctx.Done():
				result.Cancelled = true
			}
		}
	}

	result.EndTime = time.Now()

	status := jobStatusFor(result)
	errMsg := ""
	if len(result.Errors) > 0 {
		errMsg = fmt.Sprintf("%d cards failed; first: %s", result.FailedCards, result.Errors[0].Message)
	}
	// Finalize on a fresh context so cancelled runs still record their
	// terminal state.
	finCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.store.FinalizeJob(finCtx, job.ID, status, errMsg); err != nil {
		logging.Warn().Err(err).Msg("Failed to finalize job")
	}
	metrics.RecordJobDuration(gameCode, string(status), result.Duration())

	logging.Info().
		Str("game", gameCode).
		Str("status", string(status)).
		Int64("created", result.SuccessfulCards).
		Int64("skipped", result.SkippedCards).
		Int64("failed", result.FailedCards).
		Int64("prints", result.PrintsCreated).
		Int64("skus", result.SKUsCreated).
		Dur("duration", result.Duration()).
		Msg("Ingestion run finished")

	return result, nil
}

// runBatch imports one batch through a bounded worker pool. Cards sharing an
// oracle hash are grouped and processed by the same worker, so duplicates
// within a batch serialize instead of racing the card upsert.
func (e *Engine) runBatch(ctx context.Context, batch []*models.UniversalCard, result *models.BatchImportResult, mu *sync.Mutex) {
	groups := groupByOracleHash(batch)

	workers := e.cfg.Concurrency
	if workers > len(groups) {
		workers = len(groups)
	}

	work := make(chan []*models.UniversalCard)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range work {
				for _, card := range group {
					res := e.importWithRetry(ctx, card)
					if res == nil {
						// Cancelled before the card got an attempt. It was
						// not processed, so it counts toward no outcome.
						mu.Lock()
						result.Cancelled = true
						mu.Unlock()
						continue
					}
					e.recordResult(card, res, result, mu)
				}
			}
		}()
	}

	for _, group := range groups {
		work <- group
	}
	close(work)
	wg.Wait()
}

// groupByOracleHash partitions a batch into per-hash groups, preserving
// first-seen order.
func groupByOracleHash(batch []*models.UniversalCard) [][]*models.UniversalCard {
	index := make(map[string]int, len(batch))
	var groups [][]*models.UniversalCard
	for _, card := range batch {
		if i, ok := index[card.OracleHash]; ok {
			groups[i] = append(groups[i], card)
			continue
		}
		index[card.OracleHash] = len(groups)
		groups = append(groups, []*models.UniversalCard{card})
	}
	return groups
}

func (e *Engine) recordResult(card *models.UniversalCard, res *models.CardImportResult, result *models.BatchImportResult, mu *sync.Mutex) {
	metrics.RecordCardResult(card.GameCode, string(res.Status), string(res.Fault))

	mu.Lock()
	defer mu.Unlock()

	switch res.Status {
	case models.ImportStatusCreated:
		result.SuccessfulCards++
		result.PrintsCreated += int64(res.PrintsCreated)
		result.SKUsCreated += int64(res.SKUsCreated)
	case models.ImportStatusSkipped:
		result.SkippedCards++
	case models.ImportStatusFailed:
		result.FailedCards++
		if len(result.Errors) < e.cfg.MaxBatchErrors {
			result.Errors = append(result.Errors, models.BatchError{
				OracleHash: res.OracleHash,
				CardName:   res.Name,
				Fault:      res.Fault,
				Message:    res.ErrorMessage,
			})
		}
	}
}

// jobStatusFor maps an aggregate outcome to the job's terminal status.
func jobStatusFor(result *models.BatchImportResult) models.JobStatus {
	switch {
	case result.Cancelled:
		return models.JobStatusCancelled
	case result.FailedCards == 0:
		return models.JobStatusCompleted
	case result.SuccessfulCards == 0 && result.SkippedCards == 0:
		return models.JobStatusFailed
	default:
		return models.JobStatusPartial
	}
}

// BreakerState exposes the current breaker state for a fault type, for
// status reporting.
func (e *Engine) BreakerState(gameCode string, fault models.FaultType) string {
	return e.breakers.State(gameCode, fault)
}
