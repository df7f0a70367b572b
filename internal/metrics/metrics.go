// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Import pipeline metrics
	CardsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_cards_imported_total",
			Help: "Total number of cards written to the catalog",
		},
		[]string{"game"},
	)

	CardsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_cards_skipped_total",
			Help: "Total number of cards skipped as already present",
		},
		[]string{"game"},
	)

	CardsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_cards_failed_total",
			Help: "Total number of cards that failed terminally",
		},
		[]string{"game", "fault"},
	)

	PrintsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_prints_created_total",
			Help: "Total number of prints written to the catalog",
		},
		[]string{"game"},
	)

	SKUsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_skus_generated_total",
			Help: "Total number of catalog SKUs generated",
		},
		[]string{"game"},
	)

	ImportRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_import_retries_total",
			Help: "Total number of per-card import retry attempts",
		},
		[]string{"game", "fault"},
	)

	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardex_card_import_duration_seconds",
			Help:    "Duration of single-card import transactions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"game"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardex_job_duration_seconds",
			Help:    "Duration of complete ingestion jobs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"game", "status"},
	)

	// Circuit breaker metrics
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cardex_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"breaker", "from", "to"},
	)

	BreakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_circuit_breaker_rejections_total",
			Help: "Total admissions denied by an open circuit breaker",
		},
		[]string{"breaker"},
	)

	// Image dispatch metrics
	ImageDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_image_dispatches_total",
			Help: "Total image fetch tasks dispatched per outcome",
		},
		[]string{"game", "outcome"},
	)

	// Database metrics
	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardex_db_query_errors_total",
			Help: "Total catalog query errors",
		},
		[]string{"operation"},
	)
)

// RecordCardResult updates the per-card outcome counters.
func RecordCardResult(game, status, fault string) {
	switch status {
	case "created":
		CardsImported.WithLabelValues(game).Inc()
	case "skipped":
		CardsSkipped.WithLabelValues(game).Inc()
	case "failed":
		CardsFailed.WithLabelValues(game, fault).Inc()
	}
}

// RecordImportDuration observes one card import transaction duration.
func RecordImportDuration(game string, d time.Duration) {
	ImportDuration.WithLabelValues(game).Observe(d.Seconds())
}

// RecordJobDuration observes a completed job's duration under its terminal status.
func RecordJobDuration(game, status string, d time.Duration) {
	JobDuration.WithLabelValues(game, status).Observe(d.Seconds())
}

// RecordRetry counts one retry attempt for the given fault type.
func RecordRetry(game, fault string) {
	ImportRetries.WithLabelValues(game, fault).Inc()
}

// SetBreakerState records the current state of a breaker instance.
func SetBreakerState(name string, state float64) {
	BreakerState.WithLabelValues(name).Set(state)
}

// RecordBreakerTransition counts one breaker state transition.
func RecordBreakerTransition(name, from, to string) {
	BreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordBreakerRejection counts one admission denial.
func RecordBreakerRejection(name string) {
	BreakerRejections.WithLabelValues(name).Inc()
}

// RecordImageDispatch counts one image task dispatch outcome
// (dispatched, failed, or no_image).
func RecordImageDispatch(game, outcome string) {
	ImageDispatches.WithLabelValues(game, outcome).Inc()
}

// RecordDBError counts one catalog query error.
func RecordDBError(operation string) {
	DBQueryErrors.WithLabelValues(operation).Inc()
}
