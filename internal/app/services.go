// Package app provides service initialization.
package app

import (
	"github.com/courtside/scorehub/config"
	"github.com/courtside/scorehub/internal/proxy"
)

// ServiceComponents holds the per-league proxy façades.
type ServiceComponents struct {
	Proxies map[string]*proxy.Service
}

// InitializeServices constructs one proxy façade per configured league.
// Each façade owns its cache, circuit breaker, and in-flight registry;
// instances share no state.
func InitializeServices(cfg config.Config) *ServiceComponents {
	proxies := make(map[string]*proxy.Service, len(cfg.Leagues))
	for _, league := range cfg.Leagues {
		proxies[league.Name] = proxy.New(proxy.Config{
			Name:    league.Name,
			BaseURL: league.Upstream.BaseURL,
			TTLs: map[proxy.Resource]proxy.TTLPolicy{
				proxy.ResourceScoreboard: {Fresh: league.TTLs.Scoreboard.Fresh, Stale: league.TTLs.Scoreboard.Stale},
				proxy.ResourceGame:       {Fresh: league.TTLs.Game.Fresh, Stale: league.TTLs.Game.Stale},
				proxy.ResourceSchedule:   {Fresh: league.TTLs.Schedule.Fresh, Stale: league.TTLs.Schedule.Stale},
				proxy.ResourceTeam:       {Fresh: league.TTLs.Team.Fresh, Stale: league.TTLs.Team.Stale},
			},
			CacheMaxBytes:    cfg.Cache.MaxSizeBytes,
			FetchTimeout:     league.Upstream.FetchTimeout,
			BackoffSchedule:  league.Upstream.BackoffSchedule,
			FailureThreshold: league.Upstream.CircuitFailureThreshold,
			OpenDuration:     league.Upstream.CircuitOpenDuration,
		})
	}

	return &ServiceComponents{Proxies: proxies}
}

// CancelAllRequests aborts every outstanding upstream call across all
// leagues. Invoked during graceful shutdown.
func (s *ServiceComponents) CancelAllRequests() int {
	total := 0
	for _, svc := range s.Proxies {
		total += svc.CancelAllRequests()
	}
	return total
}
