package proxy

import (
	"fmt"
	"time"
)

// Resource identifies one logical upstream resource type.
type Resource string

const (
	ResourceScoreboard Resource = "scoreboard"
	ResourceGame       Resource = "game"
	ResourceSchedule   Resource = "schedule"
	ResourceTeam       Resource = "team"
)

// TTLPolicy holds the two retention thresholds applied to one cache slot:
// entries younger than Fresh are served without an upstream check; entries
// younger than Stale remain acceptable as an emergency fallback after an
// upstream failure. A single cache write serves both tiers.
type TTLPolicy struct {
	Fresh time.Duration
	Stale time.Duration
}

// scoreboardURL returns the league-wide live scoreboard endpoint.
func (s *Service) scoreboardURL() string {
	return s.baseURL + "/scoreboard"
}

// gameURL returns the game summary endpoint for one event.
func (s *Service) gameURL(eventID string) string {
	return fmt.Sprintf("%s/summary?event=%s", s.baseURL, eventID)
}

// scheduleURL returns the schedule endpoint for one team.
func (s *Service) scheduleURL(teamID string) string {
	return fmt.Sprintf("%s/teams/%s/schedule", s.baseURL, teamID)
}

// teamURL returns the team info endpoint.
func (s *Service) teamURL(teamID string) string {
	return fmt.Sprintf("%s/teams/%s", s.baseURL, teamID)
}

// cacheKey builds the deterministic cache/in-flight key for a resource and
// its identifying parameters.
func cacheKey(res Resource, params ...string) string {
	key := string(res)
	for _, p := range params {
		key += ":" + p
	}
	return key
}
