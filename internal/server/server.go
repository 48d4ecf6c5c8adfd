// Package server exposes the pipeline over HTTP: health endpoints plus
// batch-run endpoints accepting JSON bodies or file uploads.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"newspipe/internal/config"
	"newspipe/internal/logger"
	"newspipe/internal/pipeline"
)

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	pipe       *pipeline.Pipeline
	cfg        config.Server
	log        *slog.Logger
}

// New creates a new HTTP server instance
func New(pipe *pipeline.Pipeline, cfg config.Server) *Server {
	s := &Server{
		router: chi.NewRouter(),
		pipe:   pipe,
		cfg:    cfg,
		log:    logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))
}

// setupRoutes configures the route tree. The run endpoints are protected
// by bearer auth when an API key is configured.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/run/json", s.handleRunJSON)
		r.Post("/run/raw", s.handleRunRaw)
		r.Post("/run/file", s.handleRunFile)
	})
}

// requireAuth enforces "Authorization: Bearer <key>" when a key is set.
// Without a configured key, authentication is skipped.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" && r.Header.Get("Authorization") != "Bearer "+s.cfg.APIKey {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start begins listening and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down HTTP server")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
