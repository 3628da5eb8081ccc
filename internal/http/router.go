package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/courtside/scorehub/internal/metrics"
	"github.com/courtside/scorehub/internal/middleware"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit    int
	RateWindow   time.Duration
	CORSOrigins  []string
	SwaggerUser  string
	SwaggerPass  string
	EnableAuth   bool
	AdminAPIKeys map[string]bool
	JWTSecret    string
	AdminTimeout time.Duration
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:    300,
		RateWindow:   time.Minute,
		AdminTimeout: 10 * time.Second,
	}
}

// NewRouter creates and configures the Gin router for the scorehub service.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	registerProxyRoutes(api, handler, &cfg)
	registerAdminRoutes(api, handler, &cfg)

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control", "Authorization", "X-API-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", CacheStatusHeader, CacheAgeHeader, APIErrorHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	// Core middleware stack
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)

	// Global rate limiting
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(limiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger with optional basic auth
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// registerProxyRoutes registers the public per-league resource routes.
func registerProxyRoutes(api *gin.RouterGroup, handler *Handler, cfg *RouterConfig) {
	league := api.Group("/:league")
	league.GET("/scoreboard", handler.Scoreboard)
	league.GET("/games/:id", handler.Game)
	league.GET("/schedule", handler.Schedule)
	league.GET("/teams/:id", handler.Team)
	league.GET("/status", middleware.TimeoutWithDuration(cfg.AdminTimeout), handler.Status)
}

// registerAdminRoutes registers the trusted operator routes.
func registerAdminRoutes(api *gin.RouterGroup, handler *Handler, cfg *RouterConfig) {
	admin := api.Group("/:league/admin",
		middleware.AdminAuth(cfg.EnableAuth, cfg.AdminAPIKeys, cfg.JWTSecret),
		middleware.TimeoutWithDuration(cfg.AdminTimeout),
	)
	admin.POST("/circuit/reset", handler.ResetCircuit)
	admin.POST("/cache/clear", handler.ClearCache)
	admin.POST("/requests/cancel", handler.CancelRequests)
}
