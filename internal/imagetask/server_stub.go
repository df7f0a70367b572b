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

// EmbeddedServer is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats for the embedded JetStream server.
type EmbeddedServer struct{}

// NewEmbeddedServer returns an error when NATS support is not compiled in.
func NewEmbeddedServer(cfg *config.NATSConfig) (*EmbeddedServer, error) {
	return nil, fmt.Errorf("embedded NATS server not available: build with -tags=nats")
}

// ClientURL is a stub.
func (s *EmbeddedServer) ClientURL() string { return "" }

// Shutdown is a no-op stub.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error { return nil }

// IsRunning is a stub.
func (s *EmbeddedServer) IsRunning() bool { return false }
