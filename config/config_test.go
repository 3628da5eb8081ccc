package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 300, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, 10*time.Second, cfg.Server.AdminTimeout)

	assert.Equal(t, int64(25*1024*1024), cfg.Cache.MaxSizeBytes)
	assert.False(t, cfg.Auth.Enabled)

	require.Len(t, cfg.Leagues, 2)
	nfl, soccer := cfg.Leagues[0], cfg.Leagues[1]
	assert.Equal(t, "nfl", nfl.Name)
	assert.Equal(t, "soccer", soccer.Name)
	assert.Contains(t, nfl.Upstream.BaseURL, "football/nfl")
	assert.Contains(t, soccer.Upstream.BaseURL, "soccer")

	for _, league := range cfg.Leagues {
		assert.Equal(t, 10*time.Second, league.Upstream.FetchTimeout)
		assert.Equal(t, DefaultBackoffSchedule, league.Upstream.BackoffSchedule)
		assert.Equal(t, 3, league.Upstream.CircuitFailureThreshold)
		assert.Equal(t, 30*time.Second, league.Upstream.CircuitOpenDuration)

		assert.Equal(t, 15*time.Second, league.TTLs.Scoreboard.Fresh)
		assert.Equal(t, 5*time.Minute, league.TTLs.Scoreboard.Stale)
		assert.Equal(t, 5*time.Minute, league.TTLs.Schedule.Fresh)
		assert.Equal(t, 24*time.Hour, league.TTLs.Schedule.Stale)
		assert.Equal(t, time.Hour, league.TTLs.Team.Fresh)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_MAX_BYTES", "1048576")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("CIRCUIT_FAILURE_THRESHOLD", "5")
	t.Setenv("CIRCUIT_OPEN_DURATION", "1m")
	t.Setenv("BACKOFF_SCHEDULE", "1s,2s,3s")
	t.Setenv("SCOREBOARD_FRESH_TTL", "30s")
	t.Setenv("NFL_BASE_URL", "http://localhost:9999/nfl")
	t.Setenv("ADMIN_API_KEYS", "key-a, key-b")
	t.Setenv("AUTH_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(1048576), cfg.Cache.MaxSizeBytes)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, map[string]bool{"key-a": true, "key-b": true}, cfg.Auth.APIKeys)

	nfl := cfg.Leagues[0]
	assert.Equal(t, "http://localhost:9999/nfl", nfl.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, nfl.Upstream.FetchTimeout)
	assert.Equal(t, 5, nfl.Upstream.CircuitFailureThreshold)
	assert.Equal(t, time.Minute, nfl.Upstream.CircuitOpenDuration)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, nfl.Upstream.BackoffSchedule)
	assert.Equal(t, 30*time.Second, nfl.TTLs.Scoreboard.Fresh)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("CACHE_MAX_BYTES", "huge")
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("AUTH_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 300, cfg.Server.RateLimit)
	assert.Equal(t, int64(25*1024*1024), cfg.Cache.MaxSizeBytes)
	assert.Equal(t, 10*time.Second, cfg.Leagues[0].Upstream.FetchTimeout)
	assert.False(t, cfg.Auth.Enabled)
}

func TestParseDurationSlice(t *testing.T) {
	defaults := []time.Duration{time.Second}

	tests := []struct {
		name     string
		input    string
		expected []time.Duration
	}{
		{"empty uses defaults", "", defaults},
		{"single value", "5s", []time.Duration{5 * time.Second}},
		{"multiple with spaces", "2s, 5s, 15s", []time.Duration{2 * time.Second, 5 * time.Second, 15 * time.Second}},
		{"invalid entries skipped", "2s,bogus,5s", []time.Duration{2 * time.Second, 5 * time.Second}},
		{"all invalid uses defaults", "bogus,nope", defaults},
		{"non-positive skipped", "0s,-1s,3s", []time.Duration{3 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseDurationSlice(tt.input, defaults))
		})
	}
}

func TestParseAPIKeys(t *testing.T) {
	assert.Nil(t, parseAPIKeys(""))
	assert.Equal(t, map[string]bool{"a": true}, parseAPIKeys("a"))
	assert.Equal(t, map[string]bool{"a": true, "b": true}, parseAPIKeys(" a , b ,"))
}

func TestParseCORSOrigins(t *testing.T) {
	defaults := parseCORSOrigins("")
	assert.Contains(t, defaults, "http://localhost:3000")

	extended := parseCORSOrigins("http://scoreboard.lan")
	assert.Contains(t, extended, "http://localhost:3000")
	assert.Contains(t, extended, "http://scoreboard.lan")
}
