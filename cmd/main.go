// Package main is the entry point for the scorehub application.
//
// @title           ScoreHub API
// @version         1.0.0
// @description     Resilient caching proxy for live sports scores.
//
//	Serves scoreboard, game, schedule, and team data from upstream
//	sports APIs with a bounded cache, retry with backoff, and a
//	per-league circuit breaker so a LAN scoreboard keeps rendering
//	through upstream outages.
//
// @contact.name   API Support
// @contact.url    https://github.com/courtside/scorehub
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for admin endpoints. Required if authentication is enabled.
//
// @tag.name        Scores
// @tag.description Score and schedule retrieval
//
// @tag.name        Admin
// @tag.description Operator actions
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/courtside/scorehub/docs" // swagger docs

	"github.com/courtside/scorehub/config"
	"github.com/courtside/scorehub/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	router, services := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port, services)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
