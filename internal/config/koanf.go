// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cardex/config.yaml",
	"/etc/cardex/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in defaults, applied before file and env layers.
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			BatchSize:       100,
			Concurrency:     1, // ordered imports unless explicitly raised
			MaxRetries:      3,
			BaseRetryDelay:  500 * time.Millisecond,
			InterBatchDelay: 100 * time.Millisecond,
			Force:           false,
			MaxBatchErrors:  10,
		},
		Database: DatabaseConfig{
			Path:      "/data/cardex.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
		},
		Scryfall: ProviderConfig{
			BaseURL:   "https://api.scryfall.com",
			RateLimit: 10,
			Timeout:   30 * time.Second,
		},
		Pokemon: ProviderConfig{
			BaseURL:   "https://api.pokemontcg.io/v2",
			RateLimit: 2,
			Timeout:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds configuration from layered sources with clear precedence:
// environment variables over an optional YAML file over built-in defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so random environment noise never leaks
// into the configuration.
//
// Examples:
//   - INGEST_BATCH_SIZE -> ingest.batch_size
//   - DUCKDB_PATH -> database.path
//   - SCRYFALL_RATE_LIMIT -> scryfall.rate_limit
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Ingest mappings
		"ingest_batch_size":        "ingest.batch_size",
		"ingest_concurrency":       "ingest.concurrency",
		"ingest_max_retries":       "ingest.max_retries",
		"ingest_base_retry_delay":  "ingest.base_retry_delay",
		"ingest_inter_batch_delay": "ingest.inter_batch_delay",
		"ingest_force":             "ingest.force",
		"ingest_max_batch_errors":  "ingest.max_batch_errors",

		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// NATS mappings
		"nats_enabled":   "nats.enabled",
		"nats_url":       "nats.url",
		"nats_embedded":  "nats.embedded_server",
		"nats_store_dir": "nats.store_dir",

		// Provider mappings
		"scryfall_base_url":   "scryfall.base_url",
		"scryfall_api_key":    "scryfall.api_key",
		"scryfall_rate_limit": "scryfall.rate_limit",
		"scryfall_timeout":    "scryfall.timeout",
		"pokemon_base_url":    "pokemon.base_url",
		"pokemon_api_key":     "pokemon.api_key",
		"pokemon_rate_limit":  "pokemon.rate_limit",
		"pokemon_timeout":     "pokemon.timeout",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
