// Package config provides configuration management for the scorehub service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server  ServerConfig
	Cache   CacheConfig
	Auth    AuthConfig
	Leagues []LeagueConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
	// AdminTimeout bounds processing time for status and admin endpoints.
	AdminTimeout time.Duration
}

// CacheConfig holds bounded cache configuration shared by all upstream proxies.
type CacheConfig struct {
	// MaxSizeBytes is the byte ceiling for each proxy's cache.
	MaxSizeBytes int64
	// DefaultTTL applies to entries stored without an explicit TTL.
	DefaultTTL time.Duration
}

// AuthConfig holds authentication configuration for the admin surface.
type AuthConfig struct {
	Enabled      bool
	APIKeys      map[string]bool
	JWTSecretKey string
}

// UpstreamConfig holds fetch, retry, and circuit breaker configuration
// for a single upstream API.
type UpstreamConfig struct {
	BaseURL                 string
	FetchTimeout            time.Duration
	BackoffSchedule         []time.Duration
	CircuitFailureThreshold int
	CircuitOpenDuration     time.Duration
}

// TTLPair holds the fresh and stale retention windows for one resource type.
type TTLPair struct {
	Fresh time.Duration
	Stale time.Duration
}

// ResourceTTLConfig holds per-resource TTL tables.
type ResourceTTLConfig struct {
	Scoreboard TTLPair
	Game       TTLPair
	Schedule   TTLPair
	Team       TTLPair
}

// LeagueConfig describes one upstream league proxy instance.
type LeagueConfig struct {
	Name     string
	Upstream UpstreamConfig
	TTLs     ResourceTTLConfig
}

// DefaultBackoffSchedule is the delay between retry attempts against a
// failing upstream. Five total attempts: one initial plus one per delay.
var DefaultBackoffSchedule = []time.Duration{
	2 * time.Second,
	5 * time.Second,
	15 * time.Second,
	60 * time.Second,
}

// Default league endpoints at ESPN's public site API.
const (
	defaultNFLBaseURL    = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	defaultSoccerBaseURL = "https://site.api.espn.com/apis/site/v2/sports/soccer/usa.1"
)

// Load creates a Config from environment variables.
func Load() Config {
	upstream := loadUpstreamDefaults()

	nfl := upstream
	nfl.BaseURL = getEnv("NFL_BASE_URL", defaultNFLBaseURL)

	soccer := upstream
	soccer.BaseURL = getEnv("SOCCER_BASE_URL", defaultSoccerBaseURL)

	ttls := loadResourceTTLs()

	return Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			RateLimit:    getEnvInt("RATE_LIMIT", 300),
			RateWindow:   getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins:  parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:  getEnv("SWAGGER_USER", ""),
			SwaggerPass:  getEnv("SWAGGER_PASS", ""),
			AdminTimeout: getEnvDuration("ADMIN_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			MaxSizeBytes: getEnvInt64("CACHE_MAX_BYTES", 25*1024*1024),
			DefaultTTL:   getEnvDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			APIKeys:      parseAPIKeys(os.Getenv("ADMIN_API_KEYS")),
			JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		Leagues: []LeagueConfig{
			{Name: "nfl", Upstream: nfl, TTLs: ttls},
			{Name: "soccer", Upstream: soccer, TTLs: ttls},
		},
	}
}

func loadUpstreamDefaults() UpstreamConfig {
	return UpstreamConfig{
		FetchTimeout:            getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		BackoffSchedule:         parseDurationSlice(os.Getenv("BACKOFF_SCHEDULE"), DefaultBackoffSchedule),
		CircuitFailureThreshold: getEnvInt("CIRCUIT_FAILURE_THRESHOLD", 3),
		CircuitOpenDuration:     getEnvDuration("CIRCUIT_OPEN_DURATION", 30*time.Second),
	}
}

func loadResourceTTLs() ResourceTTLConfig {
	return ResourceTTLConfig{
		Scoreboard: TTLPair{
			Fresh: getEnvDuration("SCOREBOARD_FRESH_TTL", 15*time.Second),
			Stale: getEnvDuration("SCOREBOARD_STALE_TTL", 5*time.Minute),
		},
		Game: TTLPair{
			Fresh: getEnvDuration("GAME_FRESH_TTL", 15*time.Second),
			Stale: getEnvDuration("GAME_STALE_TTL", 5*time.Minute),
		},
		Schedule: TTLPair{
			Fresh: getEnvDuration("SCHEDULE_FRESH_TTL", 5*time.Minute),
			Stale: getEnvDuration("SCHEDULE_STALE_TTL", 24*time.Hour),
		},
		Team: TTLPair{
			Fresh: getEnvDuration("TEAM_FRESH_TTL", time.Hour),
			Stale: getEnvDuration("TEAM_STALE_TTL", 24*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseDurationSlice(s string, defaults []time.Duration) []time.Duration {
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		if d, err := time.ParseDuration(strings.TrimSpace(p)); err == nil && d > 0 {
			result = append(result, d)
		}
	}
	if len(result) == 0 {
		return defaults
	}
	return result
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for the LAN scoreboard UI during development.
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
