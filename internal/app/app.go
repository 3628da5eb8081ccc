// Package app provides application initialization and dependency injection.
package app

import (
	"github.com/gin-gonic/gin"

	"github.com/courtside/scorehub/config"
	"github.com/courtside/scorehub/internal/http"
)

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) (*gin.Engine, *ServiceComponents) {
	// Initialize logger first (needed by other components)
	InitializeLogger()

	// Initialize the per-league proxy façades
	serviceComponents := InitializeServices(cfg)

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(serviceComponents, cfg)

	router := http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)
	return router, serviceComponents
}
