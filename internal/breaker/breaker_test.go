// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/cardexhq/cardex/internal/models"
)

func testSettings(threshold uint32, timeout time.Duration, maxHalfOpen uint32) map[models.FaultType]Settings {
	return map[models.FaultType]Settings{
		models.FaultDatabase: {FailureThreshold: threshold, ResetTimeout: timeout, MaxHalfOpenAttempts: maxHalfOpen},
		models.FaultAPI:      {FailureThreshold: threshold, ResetTimeout: timeout, MaxHalfOpenAttempts: maxHalfOpen},
	}
}

func TestRegistryAdmitsWhenClosed(t *testing.T) {
	r := NewRegistry()
	if !r.Admit("mtg", models.FaultDatabase) {
		t.Error("fresh breaker rejected an admission")
	}
	r.RecordSuccess("mtg", models.FaultDatabase)
	if got := r.State("mtg", models.FaultDatabase); got != "closed" {
		t.Errorf("state = %s, want closed", got)
	}
}

func TestRegistryOpensAtThreshold(t *testing.T) {
	r := NewRegistryWithSettings(testSettings(3, time.Minute, 1))
	cause := errors.New("connection refused")

	for i := 0; i < 3; i++ {
		if !r.Admit("mtg", models.FaultDatabase) {
			t.Fatalf("admission %d rejected before threshold", i+1)
		}
		r.RecordFailure("mtg", models.FaultDatabase, cause)
	}

	if got := r.State("mtg", models.FaultDatabase); got != "open" {
		t.Fatalf("state after %d failures = %s, want open", 3, got)
	}
	if r.Admit("mtg", models.FaultDatabase) {
		t.Error("open breaker admitted a call")
	}
}

func TestSuccessResetsStreak(t *testing.T) {
	r := NewRegistryWithSettings(testSettings(3, time.Minute, 1))
	cause := errors.New("timeout")

	r.Admit("mtg", models.FaultDatabase)
	r.RecordFailure("mtg", models.FaultDatabase, cause)
	r.Admit("mtg", models.FaultDatabase)
	r.RecordFailure("mtg", models.FaultDatabase, cause)
	r.Admit("mtg", models.FaultDatabase)
	r.RecordSuccess("mtg", models.FaultDatabase)
	r.Admit("mtg", models.FaultDatabase)
	r.RecordFailure("mtg", models.FaultDatabase, cause)
	r.Admit("mtg", models.FaultDatabase)
	r.RecordFailure("mtg", models.FaultDatabase, cause)

	if got := r.State("mtg", models.FaultDatabase); got != "closed" {
		t.Errorf("state = %s, want closed (streak broken by success)", got)
	}
}

func TestHalfOpenProbeBudget(t *testing.T) {
	r := NewRegistryWithSettings(testSettings(2, 30*time.Millisecond, 2))
	cause := errors.New("boom")

	for i := 0; i < 2; i++ {
		r.Admit("pkm", models.FaultAPI)
		r.RecordFailure("pkm", models.FaultAPI, cause)
	}
	if got := r.State("pkm", models.FaultAPI); got != "open" {
		t.Fatalf("state = %s, want open", got)
	}

	time.Sleep(60 * time.Millisecond)

	// Half-open admits exactly MaxHalfOpenAttempts in-flight probes.
	if !r.Admit("pkm", models.FaultAPI) {
		t.Fatal("first half-open probe rejected")
	}
	if !r.Admit("pkm", models.FaultAPI) {
		t.Fatal("second half-open probe rejected")
	}
	if r.Admit("pkm", models.FaultAPI) {
		t.Error("probe beyond the half-open budget admitted")
	}

	r.RecordSuccess("pkm", models.FaultAPI)
	r.RecordSuccess("pkm", models.FaultAPI)
	if got := r.State("pkm", models.FaultAPI); got != "closed" {
		t.Errorf("state after successful probes = %s, want closed", got)
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	r := NewRegistryWithSettings(testSettings(2, 30*time.Millisecond, 1))
	cause := errors.New("boom")

	for i := 0; i < 2; i++ {
		r.Admit("pkm", models.FaultAPI)
		r.RecordFailure("pkm", models.FaultAPI, cause)
	}
	time.Sleep(60 * time.Millisecond)

	if !r.Admit("pkm", models.FaultAPI) {
		t.Fatal("half-open probe rejected")
	}
	r.RecordFailure("pkm", models.FaultAPI, cause)

	if got := r.State("pkm", models.FaultAPI); got != "open" {
		t.Errorf("state after failed probe = %s, want open", got)
	}
	if r.Admit("pkm", models.FaultAPI) {
		t.Error("reopened breaker admitted a call")
	}
}

func TestScopesIsolated(t *testing.T) {
	r := NewRegistryWithSettings(testSettings(2, time.Minute, 1))
	cause := errors.New("boom")

	for i := 0; i < 2; i++ {
		r.Admit("mtg", models.FaultDatabase)
		r.RecordFailure("mtg", models.FaultDatabase, cause)
	}

	if r.Admit("mtg", models.FaultDatabase) {
		t.Error("tripped scope admitted a call")
	}
	if !r.Admit("pkm", models.FaultDatabase) {
		t.Error("unrelated scope rejected")
	}
	if !r.Admit("mtg", models.FaultAPI) {
		t.Error("unrelated fault type rejected")
	}
}

func TestRecordWithoutAdmitIsSafe(t *testing.T) {
	r := NewRegistryWithSettings(testSettings(2, time.Minute, 1))
	cause := errors.New("boom")

	// First attempts never consult the breaker, so outcomes can arrive
	// without a prior Admit. They must still advance the streak.
	r.RecordFailure("mtg", models.FaultDatabase, cause)
	r.RecordFailure("mtg", models.FaultDatabase, cause)

	if got := r.State("mtg", models.FaultDatabase); got != "open" {
		t.Errorf("state = %s, want open after unadmitted failures", got)
	}

	// And once open, further unadmitted records are no-ops.
	r.RecordFailure("mtg", models.FaultDatabase, cause)
	r.RecordSuccess("mtg", models.FaultDatabase)
	if got := r.State("mtg", models.FaultDatabase); got != "open" {
		t.Errorf("state = %s, want open", got)
	}
}

func TestFallbackSettingsForUnknownFault(t *testing.T) {
	r := NewRegistryWithSettings(testSettings(2, time.Minute, 1))
	if !r.Admit("mtg", models.FaultValidation) {
		t.Error("fault type outside the table did not fall back to defaults")
	}
	r.RecordSuccess("mtg", models.FaultValidation)
}
