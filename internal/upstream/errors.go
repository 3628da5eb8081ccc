// Package upstream performs HTTP calls against a third-party sports API with
// timeouts, retry with backoff, and per-key in-flight deduplication.
package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCancelled is returned when a fetch is abandoned by its caller or
// superseded by a newer request for the same key. Never retried.
var ErrCancelled = errors.New("request cancelled")

// HTTPError indicates the upstream responded with a non-success status.
// 4xx statuses are fatal; 5xx statuses are retryable.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// TimeoutError indicates no response arrived within the fetch timeout window.
type TimeoutError struct {
	Timeout time.Duration
	URL     string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream request timed out after %s", e.Timeout)
}

// NetworkError indicates a connection-level failure: reset, refused, DNS, socket.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable classifies an error for the retry engine. Network errors,
// timeouts, and 5xx responses are retryable; 4xx responses and
// cancellations are not. Unclassified errors default to retryable,
// favoring resilience over fast-fail.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCancelled) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
