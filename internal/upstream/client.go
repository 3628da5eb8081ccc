package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultFetchTimeout = 10 * time.Second

// Client performs a single HTTP call against the upstream API with a hard
// timeout and cancellation support.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a Client with the given fetch timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Client{
		// The per-fetch deadline lives in the request context; the
		// transport-level client carries no timeout of its own.
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Fetch performs one GET against url. It fails with *HTTPError for
// non-success statuses, *TimeoutError when the internal timeout fires, and
// *NetworkError for connection-level failures. If ctx is cancelled first,
// the result is ErrCancelled, distinguishable from an internal timeout so
// callers do not mislabel "caller gave up" as "server too slow".
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(ctx, err, url)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classifyTransportError(ctx, err, url)
	}
	return body, nil
}

// classifyTransportError maps a transport failure to the error taxonomy.
// The caller's context is consulted first: an external cancellation that
// races the internal timer must win the classification.
func (c *Client) classifyTransportError(ctx context.Context, err error, url string) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: c.timeout, URL: url}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Timeout: c.timeout, URL: url}
	}
	return &NetworkError{Err: err}
}
