// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package pokemontcg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/cardexhq/cardex/internal/config"
)

func testClient(baseURL, apiKey string) *Client {
	return NewClient(&config.ProviderConfig{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		RateLimit: 1000,
		Timeout:   5 * time.Second,
	})
}

func TestListCardsPagination(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case 1:
			fmt.Fprint(w, `{"data":[{"id":"base1-58","name":"Pikachu","number":"58","set":{"id":"base1","name":"Base"}},`+
				`{"id":"base1-4","name":"Charizard","number":"4","set":{"id":"base1","name":"Base"}}],`+
				`"page":1,"pageSize":2,"count":2,"totalCount":3}`)
		default:
			fmt.Fprint(w, `{"data":[{"id":"base1-2","name":"Blastoise","number":"2","set":{"id":"base1","name":"Base"}}],`+
				`"page":2,"pageSize":2,"count":1,"totalCount":3}`)
		}
	}))
	defer server.Close()

	entries, err := testClient(server.URL, "test-key").ListCards(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("X-Api-Key = %q, want test-key", gotKey)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 across both pages", len(entries))
	}
	if entries[2].Name != "Blastoise" {
		t.Errorf("last entry = %s, want Blastoise from page 2", entries[2].Name)
	}
}

func TestListCardsLimit(t *testing.T) {
	var pagesServed int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if pageSize != 2 {
			t.Errorf("pageSize = %d, want limit clamped to 2", pageSize)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"a","name":"Pikachu","number":"58","set":{"id":"base1","name":"Base"}},`+
			`{"id":"b","name":"Charizard","number":"4","set":{"id":"base1","name":"Base"}}],`+
			`"page":1,"pageSize":2,"count":2,"totalCount":1000}`)
	}))
	defer server.Close()

	entries, err := testClient(server.URL, "").ListCards(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
	if pagesServed != 1 {
		t.Errorf("served %d pages, want paging to stop at limit", pagesServed)
	}
}

func TestListCardsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"Rate limit exceeded","code":429}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := testClient(server.URL, "").ListCards(context.Background(), 0); err == nil {
		t.Fatal("expected error for HTTP 429")
	}
}
