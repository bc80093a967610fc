// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the dvfmap HTTP surface:

	GET  /health, /ready, /metrics
	/api/auth    register, login, profile, logout
	/api/v1/dvf  ventes (property sales in a viewport)

Handlers are built by cmd/api and passed in through [Handlers].
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/dvfmap/internal/auth"
	"github.com/taibuivan/dvfmap/internal/dvf"
	"github.com/taibuivan/dvfmap/internal/platform/apperr"
	"github.com/taibuivan/dvfmap/internal/platform/constants"
	"github.com/taibuivan/dvfmap/internal/platform/metrics"
	"github.com/taibuivan/dvfmap/internal/platform/middleware"
	"github.com/taibuivan/dvfmap/internal/platform/respond"
)

// compressionLevel is the gzip level for JSON bodies; sale pages reach 500 records.
const compressionLevel = 5

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the endpoint implementations mounted by [NewServer].
type Handlers struct {
	// Liveness answers 200 while the process is up.
	Liveness http.HandlerFunc

	// Readiness answers 200 only when PostgreSQL and Redis respond.
	Readiness http.HandlerFunc

	Auth  *auth.Handler
	Sales *dvf.Handler
}

// Options carries the transport settings that do not come from handlers.
type Options struct {
	Port    string
	CORS    middleware.AppConfig
	Metrics *metrics.Metrics
}

// NewServer builds the router. Middleware runs in the order listed.
func NewServer(options Options, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log, options.Metrics))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS(options.CORS))
	r.Use(chimw.CleanPath)
	r.Use(chimw.Compress(compressionLevel, "application/json"))

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.RouteNotFound())
	})
	r.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.MethodNotAllowed())
	})

	// Probes and scraping stay outside the gateway.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if options.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", options.Metrics.Handler())
	}

	r.Mount("/api/auth", h.Auth.Routes())
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/dvf", h.Sales.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + options.Port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// Handler exposes the fully wired router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

/*
Run serves until ctx is cancelled, then stops accepting connections and waits
up to shutdownTimeout for in-flight requests.

Returns:
  - nil after a clean drain
  - error if the listener fails or the drain times out
*/
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api: listen on %s: %w", s.httpServer.Addr, err)
	case <-ctx.Done():
	}

	s.log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}

	s.log.Info("server_stopped_cleanly")
	return nil
}
