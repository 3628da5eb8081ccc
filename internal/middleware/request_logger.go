package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtside/scorehub/internal/logger"
)

// RequestLogger returns a middleware that logs each request with method,
// path, status, latency, and cache provenance when present.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log := logger.Logger()
		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		} else if c.Writer.Status() >= 400 {
			event = log.Warn()
		}

		event = event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if cacheStatus := c.Writer.Header().Get("X-Cache-Status"); cacheStatus != "" {
			event = event.Str("cache_status", cacheStatus)
		}
		if apiErr := c.Writer.Header().Get("X-API-Error"); apiErr != "" {
			event = event.Str("api_error", apiErr)
		}

		event.Msg("Request handled")
	}
}
