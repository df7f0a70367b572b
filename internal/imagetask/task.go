// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package imagetask

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/cardexhq/cardex/internal/identity"
	"github.com/cardexhq/cardex/internal/models"
)

// TopicImageFetch is the queue topic image fetch tasks are published to.
const TopicImageFetch = "catalog.images.fetch"

// Task is one image fetch request for a newly imported print. Exactly one
// task per print, carrying the single best URL by tier priority.
type Task struct {
	PrintHash string `json:"print_hash"`
	GameCode  string `json:"game_code"`
	CardName  string `json:"card_name"`
	SetCode   string `json:"set_code"`

	// SelectedImageURL is the one URL chosen by tier priority.
	SelectedImageURL string `json:"selected_image_url"`

	// ImageTiersRepresented lists every tier the provider offered, best
	// first, so downstream fetchers can fall back without a round trip.
	ImageTiersRepresented []string `json:"image_tiers_represented"`

	DispatchedAt time.Time `json:"dispatched_at"`
}

// Encode serializes the task for the wire.
func (t *Task) Encode() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode image task: %w", err)
	}
	return data, nil
}

// DecodeTask deserializes a wire payload back into a task.
func DecodeTask(data []byte) (*Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode image task: %w", err)
	}
	return &t, nil
}

// Dispatcher publishes image fetch tasks. Implementations must be safe for
// concurrent use.
type Dispatcher interface {
	Dispatch(ctx context.Context, task *Task) error
	Close() error
}

// NewTask builds the fetch task for a print, or (nil, false) when the print
// has no usable image URL.
func NewTask(gameCode, cardName string, print *models.UniversalPrint) (*Task, bool) {
	url, tiers, ok := identity.SelectBestImage(print.ImageURLs)
	if !ok {
		return nil, false
	}
	return &Task{
		PrintHash:             print.PrintHash,
		GameCode:              gameCode,
		CardName:              cardName,
		SetCode:               print.SetCode,
		SelectedImageURL:      url,
		ImageTiersRepresented: tiers,
		DispatchedAt:          time.Now(),
	}, true
}
