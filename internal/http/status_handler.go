package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtside/scorehub/internal/domain/dto"
	"github.com/courtside/scorehub/internal/logger"
	"github.com/courtside/scorehub/internal/middleware"
)

// Status handles GET /api/:league/status.
//
// @Summary      Proxy diagnostics
// @Description  Reports circuit breaker phase, failure counts, cache occupancy and hit rate, and in-flight upstream calls for one league proxy.
// @Tags         Diagnostics
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Success      200 {object} dto.StatusResponse
// @Failure      404 {object} dto.ErrorResponse "Unknown league"
// @Router       /api/{league}/status [get]
func (h *Handler) Status(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}

	circuit := svc.CircuitStatus()
	stats := svc.CacheStats()

	c.JSON(http.StatusOK, dto.StatusResponse{
		League: svc.Name(),
		Circuit: dto.CircuitStatusDTO{
			State:               circuit.State,
			ConsecutiveFailures: circuit.ConsecutiveFailures,
			IsHealthy:           circuit.IsHealthy,
			NextRetryInMs:       circuit.NextRetryIn.Milliseconds(),
		},
		Cache: dto.CacheStatsDTO{
			SizeBytes:    stats.SizeBytes,
			EntryCount:   stats.EntryCount,
			HitRate:      stats.HitRate,
			Hits:         stats.Hits,
			Misses:       stats.Misses,
			MaxSizeBytes: stats.MaxSizeBytes,
		},
		InflightRequests: svc.InflightCount(),
		Timestamp:        time.Now(),
	})
}

// ResetCircuit handles POST /api/:league/admin/circuit/reset.
//
// @Summary      Force-reset the circuit breaker
// @Description  Forces the league's circuit breaker closed regardless of failure history. Operator intervention for a recovered upstream.
// @Tags         Admin
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Success      200 {object} map[string]string
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Security     ApiKeyAuth
// @Router       /api/{league}/admin/circuit/reset [post]
func (h *Handler) ResetCircuit(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}
	svc.ResetCircuitBreaker()
	log := logger.Logger()
	log.Info().
		Str("league", svc.Name()).
		Str("request_id", middleware.GetRequestID(c)).
		Msg("Circuit breaker reset by operator")
	c.JSON(http.StatusOK, gin.H{"status": "circuit reset"})
}

// ClearCache handles POST /api/:league/admin/cache/clear.
//
// @Summary      Clear the proxy cache
// @Description  Drops every cached entry for the league, forcing fresh upstream fetches.
// @Tags         Admin
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Success      200 {object} map[string]string
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Security     ApiKeyAuth
// @Router       /api/{league}/admin/cache/clear [post]
func (h *Handler) ClearCache(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}
	svc.ClearCache()
	log := logger.Logger()
	log.Info().
		Str("league", svc.Name()).
		Str("request_id", middleware.GetRequestID(c)).
		Msg("Cache cleared by operator")
	c.JSON(http.StatusOK, gin.H{"status": "cache cleared"})
}

// CancelRequests handles POST /api/:league/admin/requests/cancel.
//
// @Summary      Cancel in-flight upstream calls
// @Description  Aborts every outstanding upstream call for the league.
// @Tags         Admin
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Security     ApiKeyAuth
// @Router       /api/{league}/admin/requests/cancel [post]
func (h *Handler) CancelRequests(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}
	cancelled := svc.CancelAllRequests()
	c.JSON(http.StatusOK, gin.H{"status": "requests cancelled", "cancelled": cancelled})
}
