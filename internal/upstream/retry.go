package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/scorehub/internal/circuitbreaker"
	"github.com/courtside/scorehub/internal/metrics"
)

// Retrier wraps the fetch primitive with bounded fixed-schedule retries,
// circuit breaker gating, and per-key in-flight deduplication. Total
// attempts are one initial call plus one per schedule entry.
type Retrier struct {
	client   *Client
	breaker  *circuitbreaker.CircuitBreaker
	registry *Registry
	schedule []time.Duration
	name     string

	// sleep waits out one backoff delay, racing ctx cancellation.
	// Overridable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a Retrier. name labels log events and metrics.
func NewRetrier(name string, client *Client, breaker *circuitbreaker.CircuitBreaker, registry *Registry, schedule []time.Duration) *Retrier {
	return &Retrier{
		client:   client,
		breaker:  breaker,
		registry: registry,
		schedule: schedule,
		name:     name,
		sleep:    sleepContext,
	}
}

// Fetch retrieves url, retrying per the backoff schedule. Before anything
// else it consults the circuit breaker and fails with ErrCircuitOpen if
// traffic is forbidden. A still-outstanding prior fetch for the same key is
// cancelled before the first attempt; two upstream calls never overlap for
// one logical key. On success the breaker is notified and the payload
// returned. On retryable exhaustion the breaker is notified of failure and
// the last error re-raised. Fatal errors (4xx) stop the cycle immediately
// without a breaker notification, as the upstream is alive and answering.
func (r *Retrier) Fetch(ctx context.Context, key, url string) ([]byte, error) {
	if err := r.breaker.Allow(); err != nil {
		return nil, err
	}

	ctx, settle := r.registry.Begin(ctx, key)
	metrics.SetInflight(r.name, r.registry.Len())
	defer func() {
		settle()
		metrics.SetInflight(r.name, r.registry.Len())
	}()

	var lastErr error
	for attempt := 0; attempt <= len(r.schedule); attempt++ {
		if attempt > 0 {
			delay := r.schedule[attempt-1]
			log.Debug().
				Str("upstream", r.name).
				Str("key", key).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Backing off before retry")
			if err := r.sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
			}
		}

		payload, err := r.client.Fetch(ctx, url)
		if err == nil {
			metrics.RecordUpstreamAttempt(r.name, "success")
			r.breaker.RecordSuccess()
			return payload, nil
		}

		lastErr = err
		if errors.Is(err, ErrCancelled) {
			metrics.RecordUpstreamAttempt(r.name, "cancelled")
			return nil, err
		}

		metrics.RecordUpstreamAttempt(r.name, "failure")
		if !IsRetryable(err) {
			log.Warn().
				Str("upstream", r.name).
				Str("key", key).
				Err(err).
				Msg("Fatal upstream error, not retrying")
			return nil, err
		}

		log.Warn().
			Str("upstream", r.name).
			Str("key", key).
			Int("attempt", attempt+1).
			Int("max_attempts", len(r.schedule)+1).
			Err(err).
			Msg("Upstream attempt failed")
	}

	r.breaker.RecordFailure()
	return nil, lastErr
}

// sleepContext waits for d or until ctx is done, whichever comes first.
// The timer is stopped when cancellation wins the race so it does not leak.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
