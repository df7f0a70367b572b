// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the ingestion engine.
type Config struct {
	Ingest   IngestConfig   `koanf:"ingest"`
	Database DatabaseConfig `koanf:"database"`
	NATS     NATSConfig     `koanf:"nats"`
	Scryfall ProviderConfig `koanf:"scryfall"`
	Pokemon  ProviderConfig `koanf:"pokemon"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// IngestConfig tunes the batch orchestrator and per-card retry loop.
type IngestConfig struct {
	// BatchSize is how many cards each batch holds.
	BatchSize int `koanf:"batch_size"`

	// Concurrency is the worker count inside a batch. The default of 1
	// preserves strict ordering; higher values trade ordering for speed.
	Concurrency int `koanf:"concurrency"`

	// MaxRetries is the retry count after the first attempt, so a card is
	// tried at most MaxRetries+1 times.
	MaxRetries int `koanf:"max_retries"`

	// BaseRetryDelay seeds the exponential backoff between attempts.
	BaseRetryDelay time.Duration `koanf:"base_retry_delay"`

	// InterBatchDelay is the pause between consecutive batches.
	InterBatchDelay time.Duration `koanf:"inter_batch_delay"`

	// Force re-imports known cards, refreshing the volatile data (prices,
	// image URLs, legalities) of prints that already exist.
	Force bool `koanf:"force"`

	// MaxBatchErrors bounds how many representative errors a job report
	// retains. Counts stay exact regardless.
	MaxBatchErrors int `koanf:"max_batch_errors"`
}

// DatabaseConfig configures the DuckDB catalog store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads caps DuckDB worker threads. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// NATSConfig configures the image-task publisher.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
}

// ProviderConfig configures one upstream card data provider.
type ProviderConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	// RateLimit is the request budget per second against the provider.
	RateLimit float64 `koanf:"rate_limit"`

	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig configures structured log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Ingest.BatchSize < 1 {
		return fmt.Errorf("ingest.batch_size must be at least 1, got %d", c.Ingest.BatchSize)
	}
	if c.Ingest.Concurrency < 1 {
		return fmt.Errorf("ingest.concurrency must be at least 1, got %d", c.Ingest.Concurrency)
	}
	if c.Ingest.MaxRetries < 0 {
		return fmt.Errorf("ingest.max_retries must not be negative, got %d", c.Ingest.MaxRetries)
	}
	if c.Ingest.BaseRetryDelay <= 0 {
		return fmt.Errorf("ingest.base_retry_delay must be positive, got %s", c.Ingest.BaseRetryDelay)
	}
	if c.Ingest.MaxBatchErrors < 1 {
		return fmt.Errorf("ingest.max_batch_errors must be at least 1, got %d", c.Ingest.MaxBatchErrors)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative, got %d", c.Database.Threads)
	}
	if c.NATS.Enabled && !c.NATS.EmbeddedServer && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats is enabled without the embedded server")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
