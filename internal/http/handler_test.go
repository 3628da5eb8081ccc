package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/scorehub/internal/domain/dto"
	"github.com/courtside/scorehub/internal/proxy"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newUpstreamStub runs a fake upstream whose behavior can be flipped to
// failing mid-test.
func newUpstreamStub() (*httptest.Server, *atomic.Bool) {
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"events":[{"id":"401547235"}]}`))
	}))
	return server, &failing
}

func newTestProxy(baseURL string) *proxy.Service {
	return proxy.New(proxy.Config{
		Name:    "nfl",
		BaseURL: baseURL,
		TTLs: map[proxy.Resource]proxy.TTLPolicy{
			proxy.ResourceScoreboard: {Fresh: time.Minute, Stale: time.Hour},
			proxy.ResourceGame:       {Fresh: time.Minute, Stale: time.Hour},
			proxy.ResourceSchedule:   {Fresh: time.Minute, Stale: time.Hour},
			proxy.ResourceTeam:       {Fresh: time.Minute, Stale: time.Hour},
		},
		CacheMaxBytes:    1024 * 1024,
		FetchTimeout:     time.Second,
		FailureThreshold: 3,
		OpenDuration:     30 * time.Second,
	})
}

func setupRouter(svc *proxy.Service) *gin.Engine {
	handler := NewHandler(map[string]*proxy.Service{"nfl": svc})
	healthHandler := NewHealthHandler()
	healthHandler.RegisterCircuitBreaker("nfl", svc.Breaker())
	return NewRouter(handler, healthHandler, DefaultRouterConfig())
}

func TestScoreboard_ProvenanceHeaders(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	router := setupRouter(newTestProxy(upstreamSrv.URL))

	// First request misses cache and goes upstream.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get(CacheStatusHeader))
	assert.Empty(t, w.Header().Get(APIErrorHeader))
	assert.JSONEq(t, `{"events":[{"id":"401547235"}]}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// Second request is a fresh cache hit.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get(CacheStatusHeader))
	assert.Empty(t, w.Header().Get(CacheAgeHeader))
}

func TestScoreboard_StaleServeAdvisory(t *testing.T) {
	upstreamSrv, failing := newUpstreamStub()
	defer upstreamSrv.Close()

	svc := proxy.New(proxy.Config{
		Name:    "nfl",
		BaseURL: upstreamSrv.URL,
		TTLs: map[proxy.Resource]proxy.TTLPolicy{
			// Zero fresh window: every request consults the upstream.
			proxy.ResourceScoreboard: {Fresh: 0, Stale: time.Hour},
		},
		CacheMaxBytes:    1024 * 1024,
		FetchTimeout:     time.Second,
		FailureThreshold: 3,
		OpenDuration:     30 * time.Second,
	})
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))
	require.Equal(t, http.StatusOK, w.Code)

	failing.Store(true)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get(CacheStatusHeader))
	assert.Contains(t, w.Header().Get(APIErrorHeader), "status 500")
	assert.JSONEq(t, `{"events":[{"id":"401547235"}]}`, w.Body.String())
}

func TestScoreboard_HardFailure(t *testing.T) {
	upstreamSrv, failing := newUpstreamStub()
	defer upstreamSrv.Close()
	failing.Store(true)

	router := setupRouter(newTestProxy(upstreamSrv.URL))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))

	require.Equal(t, http.StatusBadGateway, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeUpstreamFailed, resp.Error)
	assert.NotEmpty(t, resp.RequestID)
}

func TestScoreboard_CircuitOpenWithEmptyCache(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	svc := newTestProxy(upstreamSrv.URL)
	router := setupRouter(svc)

	for i := 0; i < 3; i++ {
		svc.Breaker().RecordFailure()
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeCircuitOpen, resp.Error)
}

func TestUnknownLeague(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	router := setupRouter(newTestProxy(upstreamSrv.URL))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cricket/scoreboard", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error)
	assert.Contains(t, resp.Message, "cricket")
}

func TestSchedule_RequiresTeamParameter(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	router := setupRouter(newTestProxy(upstreamSrv.URL))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/schedule", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/schedule?team=25", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGameAndTeamRoutes(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	router := setupRouter(newTestProxy(upstreamSrv.URL))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/games/401547235", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/teams/25", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	svc := newTestProxy(upstreamSrv.URL)
	router := setupRouter(svc)

	// Prime cache counters with one miss and one hit.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "nfl", resp.League)
	assert.Equal(t, "closed", resp.Circuit.State)
	assert.True(t, resp.Circuit.IsHealthy)
	assert.Equal(t, 1, resp.Cache.EntryCount)
	assert.Equal(t, int64(1), resp.Cache.Hits)
	assert.Equal(t, int64(1), resp.Cache.Misses)
	assert.Equal(t, 0, resp.InflightRequests)
}

func TestAdminEndpoints_OpenWhenAuthDisabled(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	svc := newTestProxy(upstreamSrv.URL)
	router := setupRouter(svc)

	// Seed cache and open the breaker so the resets are observable.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))
	for i := 0; i < 3; i++ {
		svc.Breaker().RecordFailure()
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/nfl/admin/circuit/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.CircuitStatus().IsHealthy)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/nfl/admin/cache/clear", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.CacheStats().EntryCount)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/nfl/admin/requests/cancel", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cancelled":0`)
}

func TestAdminEndpoints_APIKeyRequired(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	svc := newTestProxy(upstreamSrv.URL)

	handler := NewHandler(map[string]*proxy.Service{"nfl": svc})
	healthHandler := NewHealthHandler()
	cfg := DefaultRouterConfig()
	cfg.EnableAuth = true
	cfg.AdminAPIKeys = map[string]bool{"secret-key": true}
	router := NewRouter(handler, healthHandler, cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/nfl/admin/cache/clear", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/nfl/admin/cache/clear", nil)
	req.Header.Set("X-API-Key", "wrong")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/nfl/admin/cache/clear", nil)
	req.Header.Set("X-API-Key", "secret-key")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Read-only proxy routes stay open regardless of admin auth.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfl/scoreboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	upstreamSrv, _ := newUpstreamStub()
	defer upstreamSrv.Close()
	router := setupRouter(newTestProxy(upstreamSrv.URL))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
