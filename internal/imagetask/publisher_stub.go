// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

//go:build !nats

package imagetask

import (
	"context"
	"fmt"

	"github.com/cardexhq/cardex/internal/config"
)

// NATSDispatcher is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats for the Watermill JetStream dispatcher.
type NATSDispatcher struct{}

// NewNATSDispatcher returns an error when NATS support is not compiled in.
func NewNATSDispatcher(cfg *config.NATSConfig, logger interface{}) (*NATSDispatcher, error) {
	return nil, fmt.Errorf("NATS dispatcher not available: build with -tags=nats")
}

// Dispatch is a stub that returns an error.
func (d *NATSDispatcher) Dispatch(ctx context.Context, task *Task) error {
	return fmt.Errorf("NATS dispatcher not available: build with -tags=nats")
}

// Close is a no-op stub.
func (d *NATSDispatcher) Close() error {
	return nil
}
