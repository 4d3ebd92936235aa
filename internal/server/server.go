// Package server provides the public API and management HTTP servers with
// graceful startup and shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/server/router"
)

// Server wraps http.Server with configurable timeouts and graceful lifecycle
// management.
type Server struct {
	httpServer *http.Server
	router     router.Router
	logger     logger.Logger
	config     Config
}

// Config holds configuration for an HTTP server.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new Server instance with the provided configuration.
func NewServer(cfg Config, r router.Router, log logger.Logger) *Server {
	return &Server{
		router: r,
		logger: log,
		config: cfg,
	}
}

// Start begins listening for requests. The server runs until the context is
// cancelled, then shuts down gracefully. Returns an error if the listener
// fails or shutdown does.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.logger.Info("starting server", "port", s.config.Port)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting new connections and waits up to 30 seconds for
// in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(fmt.Sprintf("shutting down server on %s", s.httpServer.Addr))

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info(fmt.Sprintf("server on %s shutdown complete", s.httpServer.Addr))

	return nil
}

// Router returns the underlying router for registering routes.
func (s *Server) Router() router.Router {
	return s.router
}
