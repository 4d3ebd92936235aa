package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edunote/edunote/internal/config"
	"github.com/edunote/edunote/internal/health"
	"github.com/edunote/edunote/internal/middleware/logging"
	"github.com/edunote/edunote/internal/middleware/recovery"
	"github.com/edunote/edunote/internal/middleware/requestid"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/server/router"
)

// ManagementServer serves health checks and metrics on a separate port from
// the public API server.
type ManagementServer struct {
	*Server
	healthRegistry  *health.Registry
	metricsRegistry *prometheus.Registry
}

// NewManagementServer creates the management server with its standard
// endpoints:
//   - /healthz: liveness check, always 200
//   - /readyz: readiness check over the health registry, 503 when a
//     dependency is down
//   - /metrics: Prometheus metrics
func NewManagementServer(
	cfg config.ManagementConfig,
	r router.Router,
	log logger.Logger,
	healthRegistry *health.Registry,
	metricsRegistry *prometheus.Registry,
) *ManagementServer {
	r.Use(
		requestid.RequestID(),
		logging.WithConfig(log, logging.Config{ExcludedPathPrefixes: []string{"/healthz", "/readyz", "/metrics"}}),
		recovery.Recovery(log),
	)

	serverCfg := Config{
		Port:        cfg.Port,
		IdleTimeout: 60 * time.Second,
	}

	s := &ManagementServer{
		Server:          NewServer(serverCfg, r, log),
		healthRegistry:  healthRegistry,
		metricsRegistry: metricsRegistry,
	}

	r.GET("/healthz", s.handleHealth)
	r.GET("/readyz", s.handleReady)
	r.GET("/metrics", s.handleMetrics)

	return s
}

func (s *ManagementServer) handleHealth(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
	})
}

func (s *ManagementServer) handleReady(c router.Context) error {
	result := s.healthRegistry.Check(c.Request().Context())

	if !result.IsHealthy() {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *ManagementServer) handleMetrics(c router.Context) error {
	promhttp.HandlerFor(s.metricsRegistry, promhttp.HandlerOpts{}).
		ServeHTTP(c.Response(), c.Request())
	return nil
}
