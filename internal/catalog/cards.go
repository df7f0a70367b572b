// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/cardexhq/cardex/internal/identity"
	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/metrics"
	"github.com/cardexhq/cardex/internal/models"
)

// CardRecord is the stored card row as returned by lookups.
type CardRecord struct {
	ID         uuid.UUID
	OracleHash string
	GameCode   string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ImportOutcome reports what one ImportCard transaction actually wrote.
type ImportOutcome struct {
	CardCreated     bool
	PrintsCreated   int
	PrintsRefreshed int
	SKUsCreated     int

	// NewPrintHashes lists the prints written in this transaction, in input
	// order. Image dispatch fires only for these.
	NewPrintHashes []string
}

// GetCardByOracleHash returns the stored card row for a content hash, or
// (nil, nil) when no card with that hash exists.
func (s *Store) GetCardByOracleHash(ctx context.Context, oracleHash string) (*CardRecord, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, oracle_hash, game_code, name, created_at, updated_at
		 FROM cards WHERE oracle_hash = ?`, oracleHash)

	var rec CardRecord
	err := row.Scan(&rec.ID, &rec.OracleHash, &rec.GameCode, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("get_card")
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to query card by oracle hash: %w", err))
	}
	return &rec, nil
}

// GetPrintHashes returns the set of print hashes already stored for a card.
func (s *Store) GetPrintHashes(ctx context.Context, cardID uuid.UUID) (map[string]bool, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT print_hash FROM prints WHERE card_id = ?`, cardID)
	if err != nil {
		metrics.RecordDBError("get_print_hashes")
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to query print hashes: %w", err))
	}
	defer closeQuietly(rows)

	hashes := make(map[string]bool)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to scan print hash: %w", err))
		}
		hashes[h] = true
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("print hash iteration failed: %w", err))
	}
	return hashes, nil
}

// ImportCard writes one card, its prints, and the SKU matrix for each print in
// a single transaction. Either everything lands or nothing does.
//
// All inserts use ON CONFLICT DO NOTHING against the unique content-hash and
// SKU constraints, with RowsAffected distinguishing inserted from duplicate.
// That makes the whole operation idempotent: replaying a card that already
// exists writes zero rows and reports zero creations.
//
// With force set, prints that already exist get their volatile columns
// (prices, image URLs, legalities, rarity, finish flags) rewritten from the
// incoming data, and any SKUs the stored matrix is missing are added. Print
// identity columns never change.
func (s *Store) ImportCard(ctx context.Context, card *models.UniversalCard, skus map[string][]models.SKU, force bool) (*ImportOutcome, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordDBError("import_card")
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to begin transaction: %w", err))
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logging.Warn().Err(rbErr).Str("card", card.Name).Msg("Transaction rollback failed")
			}
		}
	}()

	outcome := &ImportOutcome{}
	now := time.Now()

	cardID, created, err := s.upsertCard(ctx, tx, card, now)
	if err != nil {
		metrics.RecordDBError("import_card")
		return nil, err
	}
	outcome.CardCreated = created

	for i := range card.Prints {
		print := &card.Prints[i]

		if err := s.upsertSet(ctx, tx, card.GameCode, print, now); err != nil {
			metrics.RecordDBError("import_card")
			return nil, err
		}

		inserted, err := s.insertPrint(ctx, tx, cardID, print, now)
		if err != nil {
			metrics.RecordDBError("import_card")
			return nil, err
		}
		if inserted {
			outcome.PrintsCreated++
			outcome.NewPrintHashes = append(outcome.NewPrintHashes, print.PrintHash)
		} else if force {
			if err := s.refreshPrint(ctx, tx, print); err != nil {
				metrics.RecordDBError("import_card")
				return nil, err
			}
			outcome.PrintsRefreshed++
		} else {
			continue
		}

		n, err := s.insertSKUs(ctx, tx, print.PrintHash, skus[print.PrintHash], now)
		if err != nil {
			metrics.RecordDBError("import_card")
			return nil, err
		}
		outcome.SKUsCreated += n
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordDBError("import_card")
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to commit card import: %w", err))
	}
	committed = true

	if outcome.PrintsCreated > 0 {
		metrics.PrintsCreated.WithLabelValues(card.GameCode).Add(float64(outcome.PrintsCreated))
		metrics.SKUsGenerated.WithLabelValues(card.GameCode).Add(float64(outcome.SKUsCreated))
	}
	return outcome, nil
}

// upsertCard inserts the card row if its oracle hash is new. Returns the row
// id either way and whether this call created it.
func (s *Store) upsertCard(ctx context.Context, tx *sql.Tx, card *models.UniversalCard, now time.Time) (uuid.UUID, bool, error) {
	id := uuid.New()
	normalized := card.NormalizedName
	if normalized == "" {
		normalized = identity.NormalizeName(card.Name)
	}

	supertypes, err := marshalJSONColumn(card.Supertypes)
	if err != nil {
		return uuid.Nil, false, err
	}
	subtypes, err := marshalJSONColumn(card.Subtypes)
	if err != nil {
		return uuid.Nil, false, err
	}
	keywords, err := marshalJSONColumn(card.Keywords)
	if err != nil {
		return uuid.Nil, false, err
	}
	gameFields, err := marshalJSONColumn(card.GameFields)
	if err != nil {
		return uuid.Nil, false, err
	}
	languages, err := marshalJSONColumn(card.Languages)
	if err != nil {
		return uuid.Nil, false, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO cards (
			id, oracle_id, oracle_hash, game_code, name, normalized_name,
			primary_type, supertypes, subtypes, keywords,
			oracle_text, flavor_text, game_fields, languages,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		id, card.OracleID, card.OracleHash, card.GameCode, card.Name, normalized,
		card.PrimaryType, supertypes, subtypes, keywords,
		card.OracleText, card.FlavorText, gameFields, languages,
		now, now,
	)
	if err != nil {
		return uuid.Nil, false, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to insert card: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, false, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to read rows affected: %w", err))
	}
	if affected > 0 {
		return id, true, nil
	}

	// Duplicate hash: resolve the existing row id.
	var existingID uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM cards WHERE oracle_hash = ?`, card.OracleHash).Scan(&existingID)
	if err != nil {
		return uuid.Nil, false, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to resolve existing card: %w", err))
	}
	return existingID, false, nil
}

func (s *Store) upsertSet(ctx context.Context, tx *sql.Tx, gameCode string, print *models.UniversalPrint, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sets (id, game_code, set_code, set_name, created_at)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		uuid.New(), gameCode, print.SetCode, print.SetName, now,
	)
	if err != nil {
		return models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to insert set %s: %w", print.SetCode, err))
	}
	return nil
}

// printColumnValues carries the nullable column encodings shared by print
// insert and refresh.
type printColumnValues struct {
	imageURLs      sql.NullString
	legalities     sql.NullString
	priceCurrency  sql.NullString
	priceNormal    sql.NullFloat64
	priceFoil      sql.NullFloat64
	priceFetchedAt sql.NullTime
}

func printColumns(print *models.UniversalPrint) (printColumnValues, error) {
	var cols printColumnValues
	var err error

	cols.imageURLs, err = marshalJSONColumn(print.ImageURLs)
	if err != nil {
		return cols, err
	}
	cols.legalities, err = marshalJSONColumn(print.Legalities)
	if err != nil {
		return cols, err
	}

	if p := print.Prices; p != nil {
		cols.priceCurrency = sql.NullString{String: p.Currency, Valid: true}
		cols.priceFetchedAt = sql.NullTime{Time: p.FetchedAt, Valid: true}
		if p.Normal != nil {
			cols.priceNormal = sql.NullFloat64{Float64: *p.Normal, Valid: true}
		}
		if p.Foil != nil {
			cols.priceFoil = sql.NullFloat64{Float64: *p.Foil, Valid: true}
		}
	}
	return cols, nil
}

func (s *Store) insertPrint(ctx context.Context, tx *sql.Tx, cardID uuid.UUID, print *models.UniversalPrint, now time.Time) (bool, error) {
	cols, err := printColumns(print)
	if err != nil {
		return false, err
	}

	imageStatus := models.ImageStatusPending
	if len(print.ImageURLs) == 0 {
		imageStatus = models.ImageStatusNone
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO prints (
			id, card_id, print_hash, set_code, collector_number,
			rarity, language, finish, artist, foil, alt_art, promo,
			image_urls, legalities,
			price_currency, price_normal, price_foil, price_fetched_at,
			image_status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		uuid.New(), cardID, print.PrintHash, print.SetCode, print.CollectorNumber,
		print.Rarity, print.Language, print.Finish, print.Artist, print.Foil, print.AltArt, print.Promo,
		cols.imageURLs, cols.legalities,
		cols.priceCurrency, cols.priceNormal, cols.priceFoil, cols.priceFetchedAt,
		imageStatus, now,
	)
	if err != nil {
		return false, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to insert print %s: %w", print.PrintHash, err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to read rows affected: %w", err))
	}
	return affected > 0, nil
}

// refreshPrint rewrites the volatile columns of an existing print row from
// the incoming data. Identity columns (set, collector number, artist) and the
// image pipeline's status columns stay untouched.
func (s *Store) refreshPrint(ctx context.Context, tx *sql.Tx, print *models.UniversalPrint) error {
	cols, err := printColumns(print)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE prints SET
			rarity = ?, language = ?, finish = ?, foil = ?, alt_art = ?, promo = ?,
			image_urls = ?, legalities = ?,
			price_currency = ?, price_normal = ?, price_foil = ?, price_fetched_at = ?
		 WHERE print_hash = ?`,
		print.Rarity, print.Language, print.Finish, print.Foil, print.AltArt, print.Promo,
		cols.imageURLs, cols.legalities,
		cols.priceCurrency, cols.priceNormal, cols.priceFoil, cols.priceFetchedAt,
		print.PrintHash,
	)
	if err != nil {
		return models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to refresh print %s: %w", print.PrintHash, err))
	}
	return nil
}

func (s *Store) insertSKUs(ctx context.Context, tx *sql.Tx, printHash string, skus []models.SKU, now time.Time) (int, error) {
	if len(skus) == 0 {
		return 0, nil
	}

	var printID uuid.UUID
	if err := tx.QueryRowContext(ctx, `SELECT id FROM prints WHERE print_hash = ?`, printHash).Scan(&printID); err != nil {
		return 0, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to resolve print for SKUs: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO skus (
			id, print_id, sku, game_code, set_code, collector_number,
			language, condition, finish, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return 0, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to prepare SKU insert: %w", err))
	}
	defer closeQuietly(stmt)

	created := 0
	for _, sku := range skus {
		result, err := stmt.ExecContext(ctx,
			uuid.New(), printID, identity.FormatSKU(sku),
			sku.GameCode, sku.SetCode, sku.CollectorNumber,
			sku.Language, sku.Condition, sku.Finish, now,
		)
		if err != nil {
			return 0, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to insert SKU: %w", err))
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to read rows affected: %w", err))
		}
		if affected > 0 {
			created++
		}
	}
	return created, nil
}

// UpdatePrintImageStatus records the outcome of image-task dispatch for a
// print. Runs outside the import transaction: image dispatch is post-commit
// and its failure never rolls back catalog data.
func (s *Store) UpdatePrintImageStatus(ctx context.Context, printHash, status, selectedURL string) error {
	_, err := s.conn.ExecContext(ctx,
		`UPDATE prints SET image_status = ?, selected_image_url = ? WHERE print_hash = ?`,
		status, selectedURL, printHash)
	if err != nil {
		metrics.RecordDBError("update_image_status")
		return models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to update image status: %w", err))
	}
	return nil
}

// CountCards returns the number of cards stored for a game.
func (s *Store) CountCards(ctx context.Context, gameCode string) (int64, error) {
	var n int64
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE game_code = ?`, gameCode).Scan(&n)
	if err != nil {
		metrics.RecordDBError("count_cards")
		return 0, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to count cards: %w", err))
	}
	return n, nil
}

// marshalJSONColumn encodes a slice or map for storage in a VARCHAR column.
// Nil or empty values store as SQL NULL rather than "null" text.
func marshalJSONColumn(v any) (sql.NullString, error) {
	switch t := v.(type) {
	case []string:
		if len(t) == 0 {
			return sql.NullString{}, nil
		}
	case map[string]string:
		if len(t) == 0 {
			return sql.NullString{}, nil
		}
	case map[models.ImageTier]string:
		if len(t) == 0 {
			return sql.NullString{}, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to encode column: %w", err))
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
