// Package cli assembles the service: configuration, logging, the document
// store, resource routes, and the public and management servers.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/edunote/edunote/internal/auth"
	"github.com/edunote/edunote/internal/config"
	"github.com/edunote/edunote/internal/health"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/repository/document"
	"github.com/edunote/edunote/internal/resource/lecture"
	"github.com/edunote/edunote/internal/resource/school"
	"github.com/edunote/edunote/internal/resource/student"
	"github.com/edunote/edunote/internal/resource/vocacategory"
	"github.com/edunote/edunote/internal/server"
	"github.com/edunote/edunote/internal/server/router"
	"github.com/edunote/edunote/internal/server/router/gin"
	"github.com/edunote/edunote/internal/store/mongodb"
	"github.com/edunote/edunote/internal/version"
)

const (
	serviceName = "edunote"
	envPrefix   = "EDUNOTE"
)

// NewRootCommand builds the edunote CLI.
func NewRootCommand() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "Academy management REST backend",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfgPath)
		},
	}
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current(serviceName)
			fmt.Printf("Service:    %s\n", info.Service)
			fmt.Printf("Version:    %s\n", info.Version)
			fmt.Printf("Commit:     %s\n", info.Commit)
			fmt.Printf("Build Time: %s\n", info.BuildTime)
		},
	})

	return rootCmd
}

// Execute runs the CLI with a signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context, cfgPath string) error {
	loader := config.NewViperLoader(cfgPath, envPrefix)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := loader.Validate(cfg); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service", "service", cfg.Service.Name, "version", version.Current(serviceName).Version)

	adapter, err := mongodb.NewAdapter(mongodb.Config{
		URL:              cfg.MongoDB.URL,
		Database:         cfg.MongoDB.Database,
		ConnectTimeout:   cfg.MongoDB.ConnectTimeout,
		OperationTimeout: cfg.MongoDB.OperationTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			log.Error("closing mongodb adapter", "error", err)
		}
	}()

	executor, err := document.NewMongoDBExecutor(adapter)
	if err != nil {
		return fmt.Errorf("creating document executor: %w", err)
	}

	publicRouter := gin.NewRouter()
	publicServer := server.NewPublicAPIServer(cfg, publicRouter, log)
	registerRoutes(publicRouter, cfg, executor, log)

	healthRegistry := health.NewRegistry()
	healthRegistry.Register(health.NewDatabaseChecker("mongodb", adapter))

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	errChan := make(chan error, 2)
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := publicServer.Start(serveCtx); err != nil {
			errChan <- fmt.Errorf("public server: %w", err)
			return
		}
		errChan <- nil
	}()

	if cfg.Management.Enabled {
		mgmtServer := server.NewManagementServer(cfg.Management, gin.NewRouter(), log, healthRegistry, metricsRegistry)
		go func() {
			if err := mgmtServer.Start(serveCtx); err != nil {
				errChan <- fmt.Errorf("management server: %w", err)
				return
			}
			errChan <- nil
		}()
	}

	// The first server to fail takes the whole process down; a clean
	// context cancellation shuts both down.
	if err := <-errChan; err != nil {
		return err
	}
	return nil
}

func registerRoutes(r router.Router, cfg *config.Config, executor document.Executor, log logger.Logger) {
	var guards []router.MiddlewareFunc
	if cfg.Auth.Enabled {
		service := auth.NewService(executor, cfg.Auth.Secret, cfg.Auth.TokenTTL, log)
		controller := auth.NewController(service, cfg.Auth.CookieName, cfg.Service.Environment == "production", log)
		controller.Register(r.Group("/auth"))
		guards = append(guards, auth.RequireToken(service, cfg.Auth.CookieName, log))
	}

	school.Register(r.Group("/school", guards...), executor, log)
	lecture.Register(r.Group("/lecture", guards...), executor, log)
	student.Register(r.Group("/student", guards...), executor, log)
	vocacategory.Register(r.Group("/vocaCategory", guards...), executor, log)
}

func newLogger(cfg *config.Config) (*logger.ZapLogger, error) {
	level, err := logger.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logger.NewZapLogger(logger.Config{Level: level, Format: format})
}
