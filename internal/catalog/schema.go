// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package catalog

import (
	"context"
	"fmt"
	"time"
)

// createTables creates the catalog schema. All statements are idempotent.
// The UNIQUE constraints on oracle_hash, print_hash, and sku are what make
// imports idempotent: re-inserting existing content affects zero rows.
func (s *Store) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id UUID PRIMARY KEY,
			oracle_id VARCHAR,
			oracle_hash VARCHAR NOT NULL UNIQUE,
			game_code VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			normalized_name VARCHAR NOT NULL,
			primary_type VARCHAR,
			supertypes VARCHAR,
			subtypes VARCHAR,
			keywords VARCHAR,
			oracle_text VARCHAR,
			flavor_text VARCHAR,
			game_fields VARCHAR,
			languages VARCHAR,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sets (
			id UUID PRIMARY KEY,
			game_code VARCHAR NOT NULL,
			set_code VARCHAR NOT NULL,
			set_name VARCHAR,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (game_code, set_code)
		)`,

		`CREATE TABLE IF NOT EXISTS prints (
			id UUID PRIMARY KEY,
			card_id UUID NOT NULL,
			print_hash VARCHAR NOT NULL UNIQUE,
			set_code VARCHAR NOT NULL,
			collector_number VARCHAR NOT NULL,
			rarity VARCHAR,
			language VARCHAR,
			finish VARCHAR,
			artist VARCHAR,
			foil BOOLEAN NOT NULL DEFAULT false,
			alt_art BOOLEAN NOT NULL DEFAULT false,
			promo BOOLEAN NOT NULL DEFAULT false,
			image_urls VARCHAR,
			legalities VARCHAR,
			price_currency VARCHAR,
			price_normal DOUBLE,
			price_foil DOUBLE,
			price_fetched_at TIMESTAMP,
			image_status VARCHAR NOT NULL DEFAULT 'pending',
			selected_image_url VARCHAR,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS skus (
			id UUID PRIMARY KEY,
			print_id UUID NOT NULL,
			sku VARCHAR NOT NULL UNIQUE,
			game_code VARCHAR NOT NULL,
			set_code VARCHAR NOT NULL,
			collector_number VARCHAR NOT NULL,
			language VARCHAR NOT NULL,
			condition VARCHAR NOT NULL,
			finish VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS etl_jobs (
			id UUID PRIMARY KEY,
			game_code VARCHAR NOT NULL,
			job_type VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			total_records BIGINT NOT NULL DEFAULT 0,
			processed_records BIGINT NOT NULL DEFAULT 0,
			error_message VARCHAR,
			started_at TIMESTAMP,
			completed_at TIMESTAMP,
			duration_ms BIGINT,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_cards_game ON cards (game_code)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_normalized_name ON cards (normalized_name)`,
		`CREATE INDEX IF NOT EXISTS idx_prints_card ON prints (card_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prints_set ON prints (set_code)`,
		`CREATE INDEX IF NOT EXISTS idx_skus_print ON skus (print_id)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_game ON etl_jobs (game_code, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
