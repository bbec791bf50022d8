// Package web provides the HTTP API for analyzing SQL.
//
// EDUCATIONAL NOTES:
// ------------------
// This package sets up an HTTP server using the chi router, which is a
// lightweight, idiomatic Go router. Key concepts:
//
// 1. Middleware: Functions that wrap handlers to add cross-cutting concerns
//    like logging, recovery from panics, and request timeouts.
//
// 2. Graceful shutdown: When the server receives a termination signal,
//    it stops accepting new connections but finishes processing in-flight
//    requests before shutting down.
//
// 3. Stateless handlers: every request runs its own analysis, so the
//    server holds configuration and a logger but no shared schema.

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cabewaldrop/minisql/internal/config"
)

// Server represents the HTTP server for the analysis API.
type Server struct {
	router *chi.Mux
	cfg    config.Server
	logger *zap.Logger

	// maxSourceBytes caps the SQL text accepted by the API.
	maxSourceBytes int64
}

// defaultRequestTimeout applies when no write timeout is configured.
const defaultRequestTimeout = 30 * time.Second

// requestTimeout bounds handler work by the server's write deadline.
func requestTimeout(cfg config.Server) time.Duration {
	if cfg.WriteTimeout <= 0 {
		return defaultRequestTimeout
	}
	return cfg.WriteTimeout
}

// NewServer creates a new HTTP server from cfg. A nil logger discards
// operational logs.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Middleware stack
	// RequestID: Adds a unique ID to each request for tracing
	r.Use(middleware.RequestID)
	// RealIP: Extracts the real client IP from X-Forwarded-For headers
	r.Use(middleware.RealIP)
	// Logger: Logs each request (method, path, duration)
	r.Use(middleware.Logger)
	// Recoverer: Catches panics in handlers, logs stack trace, returns 500
	r.Use(middleware.Recoverer)
	// Timeout: Cancels request context once the write deadline passes
	r.Use(middleware.Timeout(requestTimeout(cfg.Server)))
	// WithLogger: request-scoped zap logger carrying the request ID
	r.Use(WithLogger(logger))

	s := &Server{
		router:         r,
		cfg:            cfg.Server,
		logger:         logger,
		maxSourceBytes: cfg.Analyze.MaxSourceBytes,
	}

	s.routes()
	return s
}

// routes sets up all HTTP routes for the server.
func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(RequireJSON)
		r.Post("/analyze", s.handleAPIAnalyze)
		r.Post("/tokens", s.handleAPITokens)
		r.Post("/schema", s.handleAPISchema)
	})
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth reports liveness.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Run starts the HTTP server and blocks until shutdown.
// It handles graceful shutdown on SIGTERM and SIGINT, and on ctx being
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Channel to receive server errors
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", zap.Int("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, gracefully shutting down")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
