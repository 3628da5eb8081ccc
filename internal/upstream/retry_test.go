package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/scorehub/internal/circuitbreaker"
)

// newTestRetrier wires a Retrier whose backoff sleeps complete instantly
// while recording the requested delays.
func newTestRetrier(schedule []time.Duration, threshold int) (*Retrier, *[]time.Duration) {
	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: threshold,
		OpenDuration:     30 * time.Second,
		Name:             "test",
	})
	r := NewRetrier("test", NewClient(time.Second), breaker, NewRegistry(), schedule)

	var delays []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return r, &delays
}

func flakyServer(failures int32, failStatus int) (*httptest.Server, *int32) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= failures {
			w.WriteHeader(failStatus)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	return server, &calls
}

func TestRetrier_SuccessFirstAttempt(t *testing.T) {
	server, calls := flakyServer(0, 0)
	defer server.Close()

	r, delays := newTestRetrier([]time.Duration{2 * time.Second, 5 * time.Second}, 3)
	body, err := r.Fetch(context.Background(), "key", server.URL)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Empty(t, *delays)
}

func TestRetrier_RecoversAfterRetries(t *testing.T) {
	server, calls := flakyServer(2, http.StatusInternalServerError)
	defer server.Close()

	schedule := []time.Duration{2 * time.Second, 5 * time.Second, 15 * time.Second}
	r, delays := newTestRetrier(schedule, 3)
	body, err := r.Fetch(context.Background(), "key", server.URL)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second}, *delays)
	assert.Equal(t, circuitbreaker.StateClosed, r.breaker.State())
}

func TestRetrier_ExhaustionNotifiesBreakerOnce(t *testing.T) {
	server, calls := flakyServer(100, http.StatusServiceUnavailable)
	defer server.Close()

	schedule := []time.Duration{2 * time.Second, 5 * time.Second}
	r, delays := newTestRetrier(schedule, 1)
	_, err := r.Fetch(context.Background(), "key", server.URL)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)

	// Three attempts, full schedule consumed, one breaker failure: the
	// whole cycle counts as a single failure, so with threshold 1 the
	// breaker is now open.
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, schedule, *delays)
	assert.Equal(t, circuitbreaker.StateOpen, r.breaker.State())
}

func TestRetrier_FatalErrorStopsImmediately(t *testing.T) {
	server, calls := flakyServer(100, http.StatusNotFound)
	defer server.Close()

	r, delays := newTestRetrier([]time.Duration{2 * time.Second}, 1)
	_, err := r.Fetch(context.Background(), "key", server.URL)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Empty(t, *delays)

	// The upstream answered, so a 4xx is not breaker-relevant even at
	// threshold 1.
	assert.Equal(t, circuitbreaker.StateClosed, r.breaker.State())
}

func TestRetrier_CircuitOpenShortCircuits(t *testing.T) {
	server, calls := flakyServer(0, 0)
	defer server.Close()

	r, _ := newTestRetrier([]time.Duration{2 * time.Second}, 1)
	r.breaker.RecordFailure()
	require.Equal(t, circuitbreaker.StateOpen, r.breaker.State())

	_, err := r.Fetch(context.Background(), "key", server.URL)

	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Equal(t, 0, r.registry.Len())
}

func TestRetrier_CancellationDuringBackoff(t *testing.T) {
	server, calls := flakyServer(100, http.StatusInternalServerError)
	defer server.Close()

	r, _ := newTestRetrier([]time.Duration{2 * time.Second}, 1)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	_, err := r.Fetch(context.Background(), "key", server.URL)

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	// Cancellation is not an upstream verdict; breaker stays closed.
	assert.Equal(t, circuitbreaker.StateClosed, r.breaker.State())
}

func TestRetrier_SupersededBySameKey(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-release
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()
	defer close(release)

	r, _ := newTestRetrier(nil, 3)

	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Fetch(context.Background(), "key", server.URL)
		firstErr <- err
	}()

	// Wait for the first fetch to reach the upstream before superseding it.
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 },
		time.Second, 5*time.Millisecond)

	body, err := r.Fetch(context.Background(), "key", server.URL)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	assert.ErrorIs(t, <-firstErr, ErrCancelled)
	assert.Equal(t, 0, r.registry.Len())
}

func TestRetrier_EmptyScheduleSingleAttempt(t *testing.T) {
	server, calls := flakyServer(100, http.StatusInternalServerError)
	defer server.Close()

	r, _ := newTestRetrier(nil, 1)
	_, err := r.Fetch(context.Background(), "key", server.URL)

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, circuitbreaker.StateOpen, r.breaker.State())
}

func TestSleepContext(t *testing.T) {
	err := sleepContext(context.Background(), time.Millisecond)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sleepContext(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
