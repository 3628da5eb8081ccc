// Package dto defines the service's HTTP response envelopes.
package dto

import (
	"net/http"
	"time"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUpstreamFailed indicates the upstream API could not be reached
	// and no cached data was available.
	ErrCodeUpstreamFailed = "upstream_failed"
	// ErrCodeCircuitOpen indicates the upstream circuit breaker is open and
	// no cached data was available.
	ErrCodeCircuitOpen = "circuit_open"
)

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"upstream_failed"`
	Message   string    `json:"message,omitempty" example:"upstream returned status 503 (Service Unavailable)"`
	RequestID string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// CircuitStatusDTO reports circuit breaker state for the status endpoint.
type CircuitStatusDTO struct {
	State               string `json:"state" example:"closed"`
	ConsecutiveFailures int    `json:"consecutive_failures" example:"0"`
	IsHealthy           bool   `json:"is_healthy" example:"true"`
	NextRetryInMs       int64  `json:"next_retry_in_ms,omitempty" example:"12000"`
}

// CacheStatsDTO reports cache occupancy and counters for the status endpoint.
type CacheStatsDTO struct {
	SizeBytes    int64   `json:"size_bytes" example:"20480"`
	EntryCount   int     `json:"entry_count" example:"12"`
	HitRate      float64 `json:"hit_rate" example:"0.93"`
	Hits         int64   `json:"hits" example:"1532"`
	Misses       int64   `json:"misses" example:"115"`
	MaxSizeBytes int64   `json:"max_size_bytes" example:"26214400"`
}

// StatusResponse is the diagnostics view of one upstream proxy.
// @Description Diagnostics for one upstream proxy
type StatusResponse struct {
	League           string           `json:"league" example:"nfl"`
	Circuit          CircuitStatusDTO `json:"circuit"`
	Cache            CacheStatsDTO    `json:"cache"`
	InflightRequests int              `json:"inflight_requests" example:"1"`
	Timestamp        time.Time        `json:"timestamp"`
} // @name StatusResponse

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusBadGateway:
		return ErrCodeUpstreamFailed
	case http.StatusServiceUnavailable:
		return ErrCodeCircuitOpen
	default:
		return ErrCodeInternal
	}
}
