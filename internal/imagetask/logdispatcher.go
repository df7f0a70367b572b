// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package imagetask

import (
	"context"

	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/metrics"
)

// LogDispatcher records image tasks to the log instead of a queue. Used when
// NATS is disabled so imports still run end to end.
type LogDispatcher struct{}

// NewLogDispatcher returns a dispatcher that only logs.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Dispatch logs the task and counts it as dispatched.
func (d *LogDispatcher) Dispatch(ctx context.Context, task *Task) error {
	logging.Info().
		Str("print_hash", task.PrintHash).
		Str("card", task.CardName).
		Str("url", task.SelectedImageURL).
		Strs("tiers", task.ImageTiersRepresented).
		Msg("Image fetch task (queue disabled)")
	metrics.RecordImageDispatch(task.GameCode, "dispatched")
	return nil
}

// Close is a no-op.
func (d *LogDispatcher) Close() error {
	return nil
}
