// Package http provides the HTTP handlers and router for the scorehub service.
package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtside/scorehub/internal/circuitbreaker"
	"github.com/courtside/scorehub/internal/domain/dto"
	"github.com/courtside/scorehub/internal/middleware"
	"github.com/courtside/scorehub/internal/proxy"
	"github.com/courtside/scorehub/internal/upstream"
)

// Provenance headers attached to every proxied resource response.
const (
	CacheStatusHeader = "X-Cache-Status"
	CacheAgeHeader    = "X-Cache-Age"
	APIErrorHeader    = "X-API-Error"
)

// Handler provides HTTP handlers for the per-league proxy routes.
type Handler struct {
	proxies map[string]*proxy.Service
}

// NewHandler creates a Handler serving the given league proxies.
func NewHandler(proxies map[string]*proxy.Service) *Handler {
	return &Handler{proxies: proxies}
}

// league resolves the proxy for the :league path parameter, writing a 404
// when the league is unknown.
func (h *Handler) league(c *gin.Context) *proxy.Service {
	name := c.Param("league")
	svc, ok := h.proxies[name]
	if !ok {
		errorResp := dto.NewError(dto.ErrCodeNotFound, fmt.Sprintf("unknown league %q", name)).
			WithRequestID(middleware.GetRequestID(c))
		c.AbortWithStatusJSON(http.StatusNotFound, errorResp)
		return nil
	}
	return svc
}

// Scoreboard handles GET /api/:league/scoreboard.
//
// @Summary      Live scoreboard
// @Description  Returns the league-wide live scoreboard from the upstream API, served from cache when fresh and from stale cache during upstream outages.
// @Tags         Scores
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Success      200 {object} object "Raw upstream scoreboard payload"
// @Header       200 {string} X-Cache-Status "HIT or MISS"
// @Header       200 {string} X-Cache-Age "Seconds since the cached payload was fetched (stale serves only)"
// @Header       200 {string} X-API-Error "Advisory message when serving stale data"
// @Failure      404 {object} dto.ErrorResponse "Unknown league"
// @Failure      502 {object} dto.ErrorResponse "Upstream failed and no cached data"
// @Failure      503 {object} dto.ErrorResponse "Circuit open and no cached data"
// @Router       /api/{league}/scoreboard [get]
func (h *Handler) Scoreboard(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}
	result, err := svc.FetchScoreboard(c.Request.Context())
	h.writeResult(c, result, err)
}

// Game handles GET /api/:league/games/:id.
//
// @Summary      Game summary
// @Description  Returns the summary for one game by event id.
// @Tags         Scores
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Param        id path string true "Event id"
// @Success      200 {object} object "Raw upstream game payload"
// @Failure      404 {object} dto.ErrorResponse "Unknown league"
// @Failure      502 {object} dto.ErrorResponse "Upstream failed and no cached data"
// @Router       /api/{league}/games/{id} [get]
func (h *Handler) Game(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}
	result, err := svc.FetchGame(c.Request.Context(), c.Param("id"))
	h.writeResult(c, result, err)
}

// Schedule handles GET /api/:league/schedule.
//
// @Summary      Team schedule
// @Description  Returns the schedule for the team given by the team query parameter.
// @Tags         Scores
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Param        team query string true "Team id"
// @Success      200 {object} object "Raw upstream schedule payload"
// @Failure      400 {object} dto.ErrorResponse "Missing team parameter"
// @Failure      502 {object} dto.ErrorResponse "Upstream failed and no cached data"
// @Router       /api/{league}/schedule [get]
func (h *Handler) Schedule(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}
	teamID := c.Query("team")
	if teamID == "" {
		errorResp := dto.NewError(dto.ErrCodeInvalidRequest, "team query parameter is required").
			WithRequestID(middleware.GetRequestID(c))
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResp)
		return
	}
	result, err := svc.FetchSchedule(c.Request.Context(), teamID)
	h.writeResult(c, result, err)
}

// Team handles GET /api/:league/teams/:id.
//
// @Summary      Team info
// @Description  Returns team information, colors, and logos.
// @Tags         Scores
// @Produce      json
// @Param        league path string true "League name (nfl, soccer)"
// @Param        id path string true "Team id"
// @Success      200 {object} object "Raw upstream team payload"
// @Failure      502 {object} dto.ErrorResponse "Upstream failed and no cached data"
// @Router       /api/{league}/teams/{id} [get]
func (h *Handler) Team(c *gin.Context) {
	svc := h.league(c)
	if svc == nil {
		return
	}
	result, err := svc.FetchTeam(c.Request.Context(), c.Param("id"))
	h.writeResult(c, result, err)
}

// writeResult writes a proxy result with provenance headers, or maps the
// error to a status code when every tier came up empty.
func (h *Handler) writeResult(c *gin.Context, result proxy.Result, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}

	if result.FromCache {
		c.Header(CacheStatusHeader, "HIT")
	} else {
		c.Header(CacheStatusHeader, "MISS")
	}
	if ageSeconds := int64(result.CacheAge / time.Second); ageSeconds > 0 {
		c.Header(CacheAgeHeader, fmt.Sprintf("%d", ageSeconds))
	}
	if result.Err != "" {
		c.Header(APIErrorHeader, result.Err)
	}

	c.Data(http.StatusOK, "application/json", result.Data)
}

// writeError maps the hard-failure taxonomy onto HTTP statuses. The
// original upstream error message is preserved for diagnostics.
func (h *Handler) writeError(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		status = http.StatusServiceUnavailable
	case errors.Is(err, upstream.ErrCancelled):
		// Client went away or the request was superseded; nothing useful
		// can be written, but gin requires a terminal status.
		status = http.StatusRequestTimeout
	}

	errorResp := dto.NewError(dto.ErrCodeFromStatus(status), err.Error()).WithRequestID(requestID)
	c.AbortWithStatusJSON(status, errorResp)
}
