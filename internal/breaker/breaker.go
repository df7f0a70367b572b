// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package breaker

import (
	"fmt"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/metrics"
	"github.com/cardexhq/cardex/internal/models"
)

// Settings configures one fault type's breaker behavior.
type Settings struct {
	// FailureThreshold is the consecutive-failure count that opens the circuit.
	FailureThreshold uint32

	// ResetTimeout is how long the circuit stays open before admitting probes.
	ResetTimeout time.Duration

	// MaxHalfOpenAttempts bounds concurrent probe calls in half-open state.
	MaxHalfOpenAttempts uint32
}

// DefaultSettings is the static per-fault-type configuration table.
// Database faults open fast; image faults are more tolerant since dispatch
// never blocks catalog data. Not user-tunable at runtime.
var DefaultSettings = map[models.FaultType]Settings{
	models.FaultDatabase: {FailureThreshold: 5, ResetTimeout: 30 * time.Second, MaxHalfOpenAttempts: 2},
	models.FaultAPI:      {FailureThreshold: 6, ResetTimeout: 60 * time.Second, MaxHalfOpenAttempts: 2},
	models.FaultImage:    {FailureThreshold: 8, ResetTimeout: 45 * time.Second, MaxHalfOpenAttempts: 2},
}

// fallbackSettings covers fault types missing from the table.
var fallbackSettings = Settings{FailureThreshold: 6, ResetTimeout: 60 * time.Second, MaxHalfOpenAttempts: 2}

// key identifies one breaker instance.
type key struct {
	scope string
	fault models.FaultType
}

// entry pairs a circuit breaker with the admission callbacks handed out by
// Allow() and not yet resolved by a Record call.
type entry struct {
	cb *gobreaker.TwoStepCircuitBreaker[struct{}]

	mu      sync.Mutex
	pending []func(success bool)
}

func (e *entry) push(done func(success bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, done)
}

func (e *entry) pop() func(success bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return nil
	}
	done := e.pending[len(e.pending)-1]
	e.pending = e.pending[:len(e.pending)-1]
	return done
}

// Registry tracks failure and success streaks per (scope, faultType) pair and
// exposes an admission decision. Scope is typically a game code. State lives
// in process memory only; a restart resets every breaker to closed.
//
// Registry is safe for concurrent use by all workers of a run.
type Registry struct {
	mu       sync.Mutex
	breakers map[key]*entry
	settings map[models.FaultType]Settings
}

// NewRegistry creates a registry with the default per-fault-type table.
func NewRegistry() *Registry {
	return NewRegistryWithSettings(DefaultSettings)
}

// NewRegistryWithSettings creates a registry with a custom table.
// Used by tests to shrink timeouts.
func NewRegistryWithSettings(settings map[models.FaultType]Settings) *Registry {
	return &Registry{
		breakers: make(map[key]*entry),
		settings: settings,
	}
}

// entryFor returns the breaker for (scope, fault), creating it on first use.
func (r *Registry) entryFor(scope string, fault models.FaultType) *entry {
	k := key{scope: scope, fault: fault}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.breakers[k]; ok {
		return e
	}

	cfg, ok := r.settings[fault]
	if !ok {
		cfg = fallbackSettings
	}

	name := fmt.Sprintf("%s/%s", scope, fault)
	cb := gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxHalfOpenAttempts,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.SetBreakerState(name, stateToFloat(to))
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
	})

	e := &entry{cb: cb}
	r.breakers[k] = e
	return e
}

// Admit reports whether a call against (scope, fault) may proceed.
// Closed circuits always admit; open circuits reject until the reset timeout
// elapses; half-open circuits admit up to MaxHalfOpenAttempts probes.
func (r *Registry) Admit(scope string, fault models.FaultType) bool {
	e := r.entryFor(scope, fault)
	done, err := e.cb.Allow()
	if err != nil {
		metrics.RecordBreakerRejection(e.cb.Name())
		return false
	}
	e.push(done)
	return true
}

// RecordSuccess resolves one admission as successful. A success in half-open
// state closes the circuit and resets the failure streak. Safe to call
// without a prior Admit (the first attempt of a card is always admitted).
func (r *Registry) RecordSuccess(scope string, fault models.FaultType) {
	r.record(scope, fault, true)
}

// RecordFailure resolves one admission as failed, advancing the streak toward
// the open threshold. A failure in half-open state reopens the circuit and
// restarts the reset timer. Safe to call without a prior Admit.
func (r *Registry) RecordFailure(scope string, fault models.FaultType, cause error) {
	e := r.entryFor(scope, fault)
	logging.Debug().
		Str("breaker", e.cb.Name()).
		Err(cause).
		Msg("Recording failure against circuit breaker")
	r.record(scope, fault, false)
}

// record resolves a pending admission, or synthesizes one when the outcome
// arrived without a prior Admit. When the circuit is already open the
// synthetic admission is rejected and the record is a no-op, which is
// consistent: an open circuit needs no further evidence.
func (r *Registry) record(scope string, fault models.FaultType, success bool) {
	e := r.entryFor(scope, fault)
	if done := e.pop(); done != nil {
		done(success)
		return
	}
	if done, err := e.cb.Allow(); err == nil {
		done(success)
	}
}

// State returns the breaker state for (scope, fault) as a string, creating
// the breaker if it does not exist yet (a fresh breaker reports closed).
func (r *Registry) State(scope string, fault models.FaultType) string {
	return r.entryFor(scope, fault).cb.State().String()
}

// stateToFloat converts a breaker state to the metric gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
