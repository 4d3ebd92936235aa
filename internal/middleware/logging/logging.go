// Package logging emits a structured log line per HTTP request.
package logging

import (
	"strings"
	"time"

	"github.com/edunote/edunote/internal/middleware/requestid"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/server/router"
)

// Config configures request logging middleware behavior.
type Config struct {
	// ExcludedPathPrefixes disables logging for matching request paths,
	// typically health and metrics probes.
	ExcludedPathPrefixes []string
}

// Logging creates middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, Config{})
}

// WithConfig creates middleware that logs each request after it completes.
// Requests that return an error or a 5xx status log at error level.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range cfg.ExcludedPathPrefixes {
				if prefix != "" && strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			start := time.Now()
			method := c.Request().Method
			remoteAddr := c.Request().RemoteAddr
			requestID := requestid.GetRequestID(c.Request().Context())

			err := next(c)

			status := c.Response().Status()
			fields := []any{
				"request_id", requestID,
				"method", method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", remoteAddr,
			}

			if err != nil {
				log.Error("request failed", append(fields, "error", err)...)
				return err
			}
			if status >= 500 {
				log.Error("request completed", fields...)
				return nil
			}

			log.Info("request completed", fields...)
			return nil
		}
	}
}
