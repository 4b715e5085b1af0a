// Package server defines the Server struct that composes the app's main
// dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool and CRUD helper
//   - the pool monitor (cron) and the Prometheus registry
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/employer-api/internal/config"
	"github.com/deppfellow/employer-api/internal/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/employer-api/internal/logger"
)

// Server is the application container holding shared resources. It is not
// the HTTP server itself; that lives in httpServer and is configured by
// SetupHTTPServer.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application when APM is enabled.
	LoggerService *loggerPkg.LoggerService

	DB *database.Database

	// Monitor logs pool health on a schedule. Nil when health checks are
	// disabled.
	Monitor *database.Monitor

	// Metrics is the registry served on /metrics.
	Metrics *prometheus.Registry

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies. An unreachable
// database does not block startup; see database.New.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(ctx, cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterMetrics(registry, db.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to register pool metrics: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Metrics:       registry,
	}

	if cfg.Observability.HealthChecks.Enabled {
		monitor, err := database.NewMonitor(db.Pool, logger, cfg.Observability.HealthChecks)
		if err != nil {
			db.Close()
			return nil, err
		}
		server.Monitor = monitor
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
// Config timeouts are seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start starts the pool monitor and runs the HTTP server. It blocks until
// the server stops; a graceful Shutdown makes it return nil.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	if s.Monitor != nil {
		s.Monitor.Start()
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("database", s.Config.Primary.Database).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server (waiting for in-flight requests until ctx
// ends), then the pool monitor, then closes the connection pool. The pool
// is closed even when the HTTP shutdown times out.
func (s *Server) Shutdown(ctx context.Context) error {
	var httpErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			httpErr = fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Monitor != nil {
		s.Monitor.Stop()
	}

	if err := s.DB.Close(); err != nil {
		return errors.Join(httpErr, fmt.Errorf("failed to close database connection: %w", err))
	}

	return httpErr
}
