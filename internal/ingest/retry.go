// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package ingest

import (
	"context"
	"time"

	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/metrics"
	"github.com/cardexhq/cardex/internal/models"
)

// importWithRetry drives one card to a terminal outcome: retries with
// exponential backoff on retryable faults, fails fast on validation faults,
// and consults the circuit breaker before every retry. The first attempt is
// always admitted; breaker state only gates retries.
//
// Returns nil when the context was cancelled before the first attempt: the
// card was never processed and must not count as a failure.
func (e *Engine) importWithRetry(ctx context.Context, card *models.UniversalCard) *models.CardImportResult {
	if ctx.Err() != nil {
		return nil
	}

	maxAttempts := e.cfg.MaxRetries + 1
	delay := e.cfg.BaseRetryDelay

	var lastErr error
	var lastFault models.FaultType
	attempts := 0

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if ctx.Err() != nil {
				break
			}
			if !e.breakers.Admit(card.GameCode, lastFault) {
				logging.Warn().
					Str("card", card.Name).
					Str("fault", string(lastFault)).
					Msg("Circuit breaker open, abandoning retries")
				break
			}
		}
		attempts = attempt

		result, err := e.importer.ImportOne(ctx, card)
		if err == nil {
			if lastFault != "" {
				e.breakers.RecordSuccess(card.GameCode, lastFault)
			}
			result.Attempts = attempt
			return result
		}

		lastErr = err
		lastFault = models.ClassifyError(err)
		e.breakers.RecordFailure(card.GameCode, lastFault, err)

		if !lastFault.Retryable() {
			break
		}
		if attempt == maxAttempts {
			break
		}

		logging.Warn().Err(err).
			Str("card", card.Name).
			Str("fault", string(lastFault)).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Dur("delay", delay).
			Msg("Import attempt failed, retrying")
		metrics.RecordRetry(card.GameCode, string(lastFault))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return failedResult(card, attempts, models.FaultAPI, ctx.Err())
		}
		delay *= 2
	}

	return failedResult(card, attempts, lastFault, lastErr)
}

func failedResult(card *models.UniversalCard, attempts int, fault models.FaultType, err error) *models.CardImportResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &models.CardImportResult{
		OracleHash:   card.OracleHash,
		Name:         card.Name,
		Status:       models.ImportStatusFailed,
		Attempts:     attempts,
		Fault:        fault,
		ErrorMessage: msg,
	}
}
