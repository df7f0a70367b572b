// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package pokemontcg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/logging"
)

// maxPageSize is the largest page the Pokemon TCG API serves.
const maxPageSize = 250

const maxErrorBodySize = 64 * 1024

// Client is a rate-limited Pokemon TCG API v2 client. Unauthenticated access
// is throttled hard server-side, so the API key should always be set in
// production.
//
// Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client from provider configuration.
func NewClient(cfg *config.ProviderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// listResponse is the API's paginated envelope.
type listResponse struct {
	Data       []cardEntry `json:"data"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	Count      int         `json:"count"`
	TotalCount int         `json:"totalCount"`
}

// cardEntry is one Pokemon TCG card. Unlike Scryfall, each entry is already
// one card with exactly one printing.
type cardEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Supertype   string   `json:"supertype"`
	Subtypes    []string `json:"subtypes"`
	HP          string   `json:"hp"`
	Types       []string `json:"types"`
	EvolvesFrom string   `json:"evolvesFrom"`
	Rules       []string `json:"rules"`
	Number      string   `json:"number"`
	Artist      string   `json:"artist"`
	Rarity      string   `json:"rarity"`
	FlavorText  string   `json:"flavorText"`

	Set struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"set"`

	Abilities []struct {
		Name string `json:"name"`
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"abilities"`

	Attacks []struct {
		Name   string `json:"name"`
		Text   string `json:"text"`
		Damage string `json:"damage"`
	} `json:"attacks"`

	Images struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`

	Legalities map[string]string `json:"legalities"`

	TCGPlayer struct {
		Prices map[string]struct {
			Market float64 `json:"market"`
		} `json:"prices"`
	} `json:"tcgplayer"`
}

// ListCards pages through /cards and returns up to limit entries.
// limit <= 0 fetches everything.
func (c *Client) ListCards(ctx context.Context, limit int) ([]cardEntry, error) {
	pageSize := maxPageSize
	if limit > 0 && limit < pageSize {
		pageSize = limit
	}

	var entries []cardEntry
	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, resp.Data...)

		if limit > 0 && len(entries) >= limit {
			entries = entries[:limit]
			break
		}
		if len(resp.Data) == 0 || len(entries) >= resp.TotalCount {
			break
		}
	}
	logging.Debug().Int("cards", len(entries)).Msg("Pokemon TCG list complete")
	return entries, nil
}

func (c *Client) fetchPage(ctx context.Context, page, pageSize int) (*listResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := fmt.Sprintf("%s/cards?page=%d&pageSize=%d&orderBy=set.releaseDate,number",
		c.baseURL, page, pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pokemon tcg request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Response body close failed")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("pokemon tcg returned HTTP %d: %s", resp.StatusCode, body)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode pokemon tcg response: %w", err)
	}
	return &list, nil
}
