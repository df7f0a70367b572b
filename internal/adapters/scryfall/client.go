// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package scryfall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/logging"
)

// maxErrorBodySize caps how much of an error response body is read back for
// diagnostics.
const maxErrorBodySize = 64 * 1024

// Client is a rate-limited Scryfall REST client. Scryfall asks for at most
// 10 requests per second; the limiter enforces whatever the config says.
//
// Safe for concurrent use.
type Client struct {
	baseURL string
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
		rps = 10
	}
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// listResponse is Scryfall's paginated list envelope.
type listResponse struct {
	Object     string      `json:"object"`
	TotalCards int         `json:"total_cards"`
	HasMore    bool        `json:"has_more"`
	NextPage   string      `json:"next_page"`
	Data       []cardEntry `json:"data"`
}

// cardEntry is one Scryfall card object, which represents a single printing.
type cardEntry struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id"`
	Name            string            `json:"name"`
	Lang            string            `json:"lang"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text"`
	FlavorText      string            `json:"flavor_text"`
	ManaCost        string            `json:"mana_cost"`
	CMC             float64           `json:"cmc"`
	Keywords        []string          `json:"keywords"`
	Set             string            `json:"set"`
	SetName         string            `json:"set_name"`
	CollectorNumber string            `json:"collector_number"`
	Rarity          string            `json:"rarity"`
	Artist          string            `json:"artist"`
	Foil            bool              `json:"foil"`
	Nonfoil         bool              `json:"nonfoil"`
	Promo           bool              `json:"promo"`
	FullArt         bool              `json:"full_art"`
	ImageURIs       map[string]string `json:"image_uris"`
	Legalities      map[string]string `json:"legalities"`
	Prices          struct {
		USD     string `json:"usd"`
		USDFoil string `json:"usd_foil"`
	} `json:"prices"`
}

// SearchCards pages through a Scryfall search query and returns up to limit
// printings. limit <= 0 fetches every page.
func (c *Client) SearchCards(ctx context.Context, query string, limit int) ([]cardEntry, error) {
	pageURL := fmt.Sprintf("%s/cards/search?q=%s&unique=prints&order=set",
		c.baseURL, url.QueryEscape(query))

	var entries []cardEntry
	for pageURL != "" {
		if limit > 0 && len(entries) >= limit {
			break
		}

		page, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Data...)

		pageURL = ""
		if page.HasMore {
			pageURL = page.NextPage
		}
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	logging.Debug().Int("printings", len(entries)).Msg("Scryfall search complete")
	return entries, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*listResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scryfall request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Response body close failed")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("scryfall returned HTTP %d: %s", resp.StatusCode, body)
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode scryfall response: %w", err)
	}
	return &page, nil
}
