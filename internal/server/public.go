package server

import (
	"net/http"

	"github.com/edunote/edunote/internal/config"
	"github.com/edunote/edunote/internal/middleware/cors"
	"github.com/edunote/edunote/internal/middleware/logging"
	"github.com/edunote/edunote/internal/middleware/ratelimit"
	"github.com/edunote/edunote/internal/middleware/recovery"
	"github.com/edunote/edunote/internal/middleware/requestid"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/server/router"
)

// Banner is the plain-text body of the root liveness route.
const Banner = "마이크 테스트"

// PublicAPIServer wraps Server for application traffic. It applies the
// standard middleware stack, the root liveness route, and the unmatched-route
// fallthrough; resource routes are registered on its router by the caller.
type PublicAPIServer struct {
	*Server
}

// NewPublicAPIServer creates the public API server.
//
// The middleware stack is applied in the following order:
//  1. Request ID - generates/extracts request IDs for correlation
//  2. Logging - logs HTTP requests with structured data
//  3. Recovery - catches panics and returns empty 500 responses
//  4. CORS - when enabled
//  5. Rate limiting - per-client token bucket, when enabled
func NewPublicAPIServer(cfg *config.Config, r router.Router, log logger.Logger) *PublicAPIServer {
	r.Use(
		requestid.RequestID(),
		logging.Logging(log),
		recovery.Recovery(log),
	)

	if cfg.CORS.Enabled {
		r.Use(cors.Middleware(cors.Config{
			Enabled:          true,
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     cfg.CORS.AllowMethods,
			AllowHeaders:     cfg.CORS.AllowHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewTokenBucketLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		r.Use(ratelimit.RateLimit(limiter, ratelimit.Config{}))
	}

	r.GET("/", func(c router.Context) error {
		return c.String(http.StatusOK, Banner)
	})
	r.NoRoute(func(c router.Context) error {
		return c.JSON(http.StatusNotFound, struct{}{})
	})

	serverCfg := Config{
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &PublicAPIServer{Server: NewServer(serverCfg, r, log)}
}
