// Package circuitbreaker tracks consecutive upstream failures and
// short-circuits traffic while the upstream is deemed down.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned by Allow when the circuit currently forbids traffic.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed means requests pass through normally.
	StateClosed State = iota
	// StateOpen means requests are rejected until the open duration elapses.
	StateOpen
	// StateHalfOpen means the cooldown has elapsed and a probe request is allowed.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int
	// OpenDuration is how long the circuit stays open before a probe is allowed.
	OpenDuration time.Duration
	// Name identifies the breaker in logs and metrics.
	Name string
	// OnStateChange, if set, is invoked after every state transition.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 3,
		OpenDuration:     30 * time.Second,
		Name:             "circuit-breaker",
	}
}

// CircuitBreaker implements the circuit breaker pattern with lazy recovery:
// the open-to-half-open transition happens when a call arrives after the
// open duration has elapsed, not on a background timer.
type CircuitBreaker struct {
	config              Config
	state               State
	consecutiveFailures int
	openedAt            time.Time
	retryAfter          time.Time
	mu                  sync.Mutex
	now                 func() time.Time
}

// New creates a new circuit breaker with the given configuration.
func New(config Config) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.OpenDuration <= 0 {
		config.OpenDuration = 30 * time.Second
	}
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Allow reports whether a call may proceed. When the circuit is open and the
// cooldown has elapsed, the breaker transitions to half-open and the call is
// admitted as the recovery probe. Returns ErrCircuitOpen otherwise.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	if cb.now().Before(cb.retryAfter) {
		return ErrCircuitOpen
	}

	cb.transition(StateHalfOpen)
	log.Info().
		Str("circuit_breaker", cb.config.Name).
		Msg("Circuit breaker transitioning to half-open")
	return nil
}

// RecordSuccess notes a successful call. Any success fully heals the
// breaker: state returns to closed and the failure counter resets.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures = 0
	if cb.state != StateClosed {
		cb.transition(StateClosed)
		log.Info().
			Str("circuit_breaker", cb.config.Name).
			Msg("Circuit breaker closed after successful call")
	}
}

// RecordFailure notes a failed call, opening the circuit once the
// consecutive-failure threshold is reached. A failure while half-open
// reopens the circuit immediately with a fresh cooldown.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures++

	switch cb.state {
	case StateClosed:
		if cb.consecutiveFailures >= cb.config.FailureThreshold {
			cb.open()
			log.Warn().
				Str("circuit_breaker", cb.config.Name).
				Int("consecutive_failures", cb.consecutiveFailures).
				Msg("Circuit breaker opened")
		}
	case StateHalfOpen:
		cb.open()
		log.Warn().
			Str("circuit_breaker", cb.config.Name).
			Msg("Circuit breaker reopened after half-open probe failure")
	}
}

// open moves to the open state and records the cooldown deadline.
// Callers must hold cb.mu.
func (cb *CircuitBreaker) open() {
	now := cb.now()
	cb.openedAt = now
	cb.retryAfter = now.Add(cb.config.OpenDuration)
	cb.transition(StateOpen)
}

// transition updates state and fires the OnStateChange hook.
// Callers must hold cb.mu.
func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen reports whether the breaker currently forbids traffic. Once the
// cooldown has elapsed it returns false even before a probe arrives, so
// callers fall through to the path where Allow performs the transition.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == StateOpen && cb.now().Before(cb.retryAfter)
}

// ForceReset forces the breaker to closed with a zeroed failure counter,
// regardless of history. Manual operator intervention only.
func (cb *CircuitBreaker) ForceReset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures = 0
	cb.openedAt = time.Time{}
	cb.retryAfter = time.Time{}
	if cb.state != StateClosed {
		cb.transition(StateClosed)
	}
	log.Info().
		Str("circuit_breaker", cb.config.Name).
		Msg("Circuit breaker force-reset")
}

// Status is a point-in-time view of breaker state.
type Status struct {
	State               string        `json:"state"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	IsHealthy           bool          `json:"is_healthy"`
	NextRetryIn         time.Duration `json:"next_retry_in_ms,omitempty"`
	OpenedAt            time.Time     `json:"opened_at,omitempty"`
}

// GetStatus returns current circuit breaker status. NextRetryIn is only
// meaningful while the circuit is open.
func (cb *CircuitBreaker) GetStatus() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	status := Status{
		State:               cb.state.String(),
		ConsecutiveFailures: cb.consecutiveFailures,
		IsHealthy:           cb.state == StateClosed,
		OpenedAt:            cb.openedAt,
	}
	if cb.state == StateOpen {
		if remaining := cb.retryAfter.Sub(cb.now()); remaining > 0 {
			status.NextRetryIn = remaining
		}
	}
	return status
}
