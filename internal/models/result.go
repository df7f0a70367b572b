// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package models

import (
	"errors"
	"fmt"
	"time"
)

// FaultType classifies an import failure for retry and circuit-breaker
// decisions.
type FaultType string

const (
	// FaultAPI is an adapter or provider network failure. Retryable.
	FaultAPI FaultType = "api_error"

	// FaultValidation is malformed canonical data. Not retryable.
	FaultValidation FaultType = "validation_error"

	// FaultDatabase is a transaction or constraint failure. Retryable.
	FaultDatabase FaultType = "database_error"

	// FaultImage is a post-commit image dispatch failure. Retryable but never
	// blocks catalog data.
	FaultImage FaultType = "image_error"
)

// Retryable reports whether failures of this type may be retried.
func (f FaultType) Retryable() bool {
	return f != FaultValidation
}

// ImportError carries a fault classification alongside the underlying error.
type ImportError struct {
	Fault FaultType
	Err   error
}

// NewImportError wraps err with a fault classification.
func NewImportError(fault FaultType, err error) *ImportError {
	return &ImportError{Fault: fault, Err: err}
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Fault, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ClassifyError extracts the fault type from an error chain.
// Unclassified errors default to FaultAPI, the most conservative retryable
// class for failures of unknown origin.
func ClassifyError(err error) FaultType {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Fault
	}
	return FaultAPI
}

// ImportStatus is the outcome of one card import.
type ImportStatus string

const (
	// ImportStatusCreated means the card row (or at least one new print) was
	// written to the catalog.
	ImportStatusCreated ImportStatus = "created"

	// ImportStatusSkipped means the card existed and produced zero new
	// prints or SKUs. Counted as success; the dominant path on re-runs.
	ImportStatusSkipped ImportStatus = "skipped"

	// ImportStatusFailed means the card could not be imported.
	ImportStatusFailed ImportStatus = "failed"
)

// CardImportResult reports the outcome of importing one canonical card.
type CardImportResult struct {
	OracleHash string       `json:"oracle_hash"`
	Name       string       `json:"name"`
	Status     ImportStatus `json:"status"`

	PrintsCreated int `json:"prints_created"`
	SKUsCreated   int `json:"skus_created"`

	// Attempts counts import attempts including the first (1 = no retries).
	Attempts int `json:"attempts"`

	// Fault and ErrorMessage are set when Status is failed.
	Fault        FaultType `json:"fault,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Failed reports whether the import ended in failure.
func (r *CardImportResult) Failed() bool {
	return r.Status == ImportStatusFailed
}

// BatchError is one representative error retained for the job report.
type BatchError struct {
	OracleHash string    `json:"oracle_hash"`
	CardName   string    `json:"card_name"`
	Fault      FaultType `json:"fault"`
	Message    string    `json:"message"`
}

// BatchImportResult aggregates per-card outcomes across all batches of a run.
type BatchImportResult struct {
	TotalCards      int64 `json:"total_cards"`
	SuccessfulCards int64 `json:"successful_cards"`
	FailedCards     int64 `json:"failed_cards"`
	SkippedCards    int64 `json:"skipped_cards"`

	PrintsCreated int64 `json:"prints_created"`
	SKUsCreated   int64 `json:"skus_created"`

	// Errors holds a bounded list of representative non-retryable and
	// terminal errors; counts above are always exact.
	Errors []BatchError `json:"errors,omitempty"`

	// Cancelled is set when the run stopped between batches on cancellation.
	Cancelled bool `json:"cancelled"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the wall-clock duration of the run.
func (r *BatchImportResult) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}
