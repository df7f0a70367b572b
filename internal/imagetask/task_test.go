// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package imagetask

import (
	"context"
	"testing"

	"github.com/cardexhq/cardex/internal/models"
)

func TestNewTask(t *testing.T) {
	t.Run("selects the best tier", func(t *testing.T) {
		print := &models.UniversalPrint{
			PrintHash:       "abc123",
			SetCode:         "LEA",
			CollectorNumber: "161",
			ImageURLs: map[models.ImageTier]string{
				models.ImageTierSmall: "https://img/small.jpg",
				models.ImageTierLarge: "https://img/large.jpg",
			},
		}
		task, ok := NewTask("MTG", "Lightning Bolt", print)
		if !ok {
			t.Fatal("expected a task")
		}
		if task.SelectedImageURL != "https://img/large.jpg" {
			t.Errorf("selected %s, want large tier", task.SelectedImageURL)
		}
		if task.PrintHash != "abc123" || task.GameCode != "MTG" {
			t.Errorf("task identity = %s/%s", task.PrintHash, task.GameCode)
		}
		if len(task.ImageTiersRepresented) != 2 {
			t.Errorf("tiers represented = %v, want both offered tiers", task.ImageTiersRepresented)
		}
	})

	t.Run("no image yields no task", func(t *testing.T) {
		print := &models.UniversalPrint{PrintHash: "abc123", SetCode: "LEA", CollectorNumber: "161"}
		if _, ok := NewTask("MTG", "Lightning Bolt", print); ok {
			t.Error("imageless print produced a task")
		}
	})
}

func TestTaskEncodeDecode(t *testing.T) {
	task := &Task{
		PrintHash:             "abc123",
		GameCode:              "MTG",
		CardName:              "Lightning Bolt",
		SetCode:               "LEA",
		SelectedImageURL:      "https://img/bolt.png",
		ImageTiersRepresented: []string{"png", "large"},
	}

	data, err := task.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := DecodeTask(data)
	if err != nil {
		t.Fatalf("DecodeTask: %v", err)
	}
	if got.PrintHash != task.PrintHash || got.SelectedImageURL != task.SelectedImageURL {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if _, err := DecodeTask([]byte("{not json")); err == nil {
		t.Error("malformed payload decoded without error")
	}
}

func TestLogDispatcher(t *testing.T) {
	d := NewLogDispatcher()
	task := &Task{PrintHash: "abc", GameCode: "MTG", SelectedImageURL: "https://img/x.png"}
	if err := d.Dispatch(context.Background(), task); err != nil {
		t.Errorf("Dispatch: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
