// Package proxy composes the bounded cache, retry engine, and circuit
// breaker into a resilient per-upstream fetch façade. Normal operation
// resolves at the fresh cache tier; transient upstream trouble resolves at
// the stale tier with a visibly flagged degraded response; only a dead
// upstream combined with an empty cache surfaces a hard error.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside/scorehub/internal/cache"
	"github.com/courtside/scorehub/internal/circuitbreaker"
	"github.com/courtside/scorehub/internal/logger"
	"github.com/courtside/scorehub/internal/metrics"
	"github.com/courtside/scorehub/internal/upstream"
)

// circuitOpenAdvisory is attached to stale responses served while the
// breaker forbids upstream traffic.
const circuitOpenAdvisory = "upstream circuit breaker open; serving cached data"

// Record is the value stored in the cache for each logical resource.
type Record struct {
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Result carries fetched data plus provenance metadata.
type Result struct {
	Data      json.RawMessage
	FromCache bool
	CacheAge  time.Duration
	// Err holds an advisory message when stale data is served because the
	// upstream failed or the circuit is open. Empty on healthy responses.
	Err string
}

// Config holds constructor-time configuration for one upstream façade.
type Config struct {
	// Name labels the upstream in logs, metrics, and breaker state.
	Name string
	// BaseURL is the upstream API root for this league.
	BaseURL string
	// TTLs maps each resource type to its fresh/stale thresholds.
	TTLs map[Resource]TTLPolicy
	// CacheMaxBytes is the byte ceiling for this façade's cache.
	CacheMaxBytes int64
	// FetchTimeout bounds each individual upstream call.
	FetchTimeout time.Duration
	// BackoffSchedule is the delay sequence between retry attempts.
	BackoffSchedule []time.Duration
	// FailureThreshold and OpenDuration configure the circuit breaker.
	FailureThreshold int
	OpenDuration     time.Duration
}

// Service is a resilient proxy for one upstream API. Construct one per
// upstream; instances share no state.
type Service struct {
	name     string
	baseURL  string
	ttls     map[Resource]TTLPolicy
	cache    *cache.Cache[Record]
	breaker  *circuitbreaker.CircuitBreaker
	registry *upstream.Registry
	retrier  *upstream.Retrier
	log      zerolog.Logger
	now      func() time.Time
}

// New constructs a Service and its owned cache, breaker, and registry.
func New(cfg Config) *Service {
	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		OpenDuration:     cfg.OpenDuration,
		Name:             cfg.Name,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
	registry := upstream.NewRegistry()
	client := upstream.NewClient(cfg.FetchTimeout)

	return &Service{
		name:     cfg.Name,
		baseURL:  cfg.BaseURL,
		ttls:     cfg.TTLs,
		cache:    cache.New[Record](cfg.CacheMaxBytes, longestStale(cfg.TTLs)),
		breaker:  breaker,
		registry: registry,
		retrier:  upstream.NewRetrier(cfg.Name, client, breaker, registry, cfg.BackoffSchedule),
		log:      logger.WithLeague(cfg.Name),
		now:      time.Now,
	}
}

// longestStale picks a default cache TTL that outlives every stale window.
func longestStale(ttls map[Resource]TTLPolicy) time.Duration {
	longest := 5 * time.Minute
	for _, pol := range ttls {
		if pol.Stale > longest {
			longest = pol.Stale
		}
	}
	return longest
}

// FetchScoreboard returns the league-wide live scoreboard.
func (s *Service) FetchScoreboard(ctx context.Context) (Result, error) {
	return s.fetch(ctx, ResourceScoreboard, cacheKey(ResourceScoreboard), s.scoreboardURL())
}

// FetchGame returns the summary for one game.
func (s *Service) FetchGame(ctx context.Context, eventID string) (Result, error) {
	return s.fetch(ctx, ResourceGame, cacheKey(ResourceGame, eventID), s.gameURL(eventID))
}

// FetchSchedule returns the schedule for one team.
func (s *Service) FetchSchedule(ctx context.Context, teamID string) (Result, error) {
	return s.fetch(ctx, ResourceSchedule, cacheKey(ResourceSchedule, teamID), s.scheduleURL(teamID))
}

// FetchTeam returns team info.
func (s *Service) FetchTeam(ctx context.Context, teamID string) (Result, error) {
	return s.fetch(ctx, ResourceTeam, cacheKey(ResourceTeam, teamID), s.teamURL(teamID))
}

// fetch runs the three-tier flow for one resource: fresh cache, then
// upstream via the retry engine, then stale cache.
func (s *Service) fetch(ctx context.Context, res Resource, key, url string) (Result, error) {
	pol := s.ttls[res]
	start := s.now()
	defer func() {
		metrics.RecordFetch(s.name, string(res), s.now().Sub(start))
	}()

	// Tier 1: a cache entry younger than the fresh threshold is served
	// without any upstream check.
	if rec, ok := s.cache.Get(key); ok {
		if s.now().Sub(rec.FetchedAt) <= pol.Fresh {
			return Result{Data: rec.Payload, FromCache: true}, nil
		}
	}

	// With the circuit open, prefer a stale serve over a guaranteed-failing
	// upstream call. An empty cache still falls through: only the retry
	// engine enforces the hard block.
	if s.breaker.IsOpen() {
		if result, ok := s.staleRead(res, key, circuitOpenAdvisory); ok {
			return result, nil
		}
	}

	payload, err := s.retrier.Fetch(ctx, key, url)
	if err == nil {
		rec := Record{Payload: payload, FetchedAt: s.now()}
		// Stored under the stale threshold so the entry stays available
		// for fallback reads long after it stops being fresh.
		s.cache.SetWithTTL(key, rec, pol.Stale)
		metrics.SetCacheSize(s.name, s.cache.Stats().SizeBytes)
		return Result{Data: payload}, nil
	}

	// Cancellations settle as cancellations; stale data would be written
	// to a caller that already gave up.
	if errors.Is(err, upstream.ErrCancelled) {
		return Result{}, err
	}

	advisory := err.Error()
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		advisory = circuitOpenAdvisory
	}
	if result, ok := s.staleRead(res, key, advisory); ok {
		s.log.Warn().
			Str("resource", string(res)).
			Str("key", key).
			Err(err).
			Dur("cache_age", result.CacheAge).
			Msg("Upstream failed, serving stale cache")
		return result, nil
	}

	// Tier 3 empty as well: the only path that surfaces a hard error.
	return Result{}, err
}

// staleRead attempts the relaxed cache read. The cache entry's own TTL is
// the stale threshold, so any entry still present is acceptable here.
func (s *Service) staleRead(res Resource, key, advisory string) (Result, bool) {
	rec, ok := s.cache.Get(key)
	if !ok {
		return Result{}, false
	}
	metrics.RecordStaleFallback(s.name, string(res))
	return Result{
		Data:      rec.Payload,
		FromCache: true,
		CacheAge:  s.now().Sub(rec.FetchedAt),
		Err:       advisory,
	}, true
}

// CancelRequest aborts the outstanding upstream call for one cache key.
func (s *Service) CancelRequest(key string) bool {
	return s.registry.Cancel(key)
}

// CancelAllRequests aborts every outstanding upstream call. Used at
// process shutdown to avoid dangling sockets.
func (s *Service) CancelAllRequests() int {
	n := s.registry.CancelAll()
	if n > 0 {
		s.log.Info().Int("cancelled", n).Msg("Cancelled in-flight upstream requests")
	}
	return n
}

// InflightCount returns the number of currently outstanding upstream calls.
func (s *Service) InflightCount() int {
	return s.registry.Len()
}

// CacheStats returns cache counters and occupancy.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// CircuitStatus returns the circuit breaker's current status.
func (s *Service) CircuitStatus() circuitbreaker.Status {
	return s.breaker.GetStatus()
}

// Breaker exposes the underlying circuit breaker for health reporting.
func (s *Service) Breaker() *circuitbreaker.CircuitBreaker {
	return s.breaker
}

// ClearCache drops every cached entry for this upstream.
func (s *Service) ClearCache() {
	s.cache.Clear()
	metrics.SetCacheSize(s.name, 0)
}

// ResetCircuitBreaker forces the breaker closed. Operator intervention only.
func (s *Service) ResetCircuitBreaker() {
	s.breaker.ForceReset()
}

// Name returns the upstream label this façade was constructed with.
func (s *Service) Name() string {
	return s.name
}
