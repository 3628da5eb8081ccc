// Package app provides router configuration.
package app

import (
	"github.com/courtside/scorehub/config"
	"github.com/courtside/scorehub/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(services *ServiceComponents, cfg config.Config) *RouterComponents {
	handler := http.NewHandler(services.Proxies)
	healthHandler := http.NewHealthHandler()

	// Register each league's circuit breaker for health monitoring
	for name, svc := range services.Proxies {
		healthHandler.RegisterCircuitBreaker(name, svc.Breaker())
	}

	routerCfg := http.RouterConfig{
		RateLimit:    cfg.Server.RateLimit,
		RateWindow:   cfg.Server.RateWindow,
		CORSOrigins:  cfg.Server.CORSOrigins,
		SwaggerUser:  cfg.Server.SwaggerUser,
		SwaggerPass:  cfg.Server.SwaggerPass,
		EnableAuth:   cfg.Auth.Enabled,
		AdminAPIKeys: cfg.Auth.APIKeys,
		JWTSecret:    cfg.Auth.JWTSecretKey,
		AdminTimeout: cfg.Server.AdminTimeout,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
