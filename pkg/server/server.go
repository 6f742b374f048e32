// Package server exposes the planning pipeline over HTTP: one endpoint to
// run a query end to end, plus read-only views of the ontology and the tool
// catalog it is grounded on.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ontoplan/ontoplan/pkg/pipeline"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// Server serves the planning API on one address.
type Server struct {
	addr     string
	pipeline *pipeline.Pipeline
	layer    *semantic.Layer

	gatherer prometheus.Gatherer
	logger   *slog.Logger

	httpServer *http.Server
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithLogger overrides the process default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGatherer sets the metrics source behind /metrics. Without it the
// default prometheus gatherer is served.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func New(addr string, p *pipeline.Pipeline, layer *semantic.Layer, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		pipeline: p,
		layer:    layer,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the route tree. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP)

	r.Post("/v1/plan", s.handlePlan)
	r.Get("/v1/ontology", s.handleOntology)
	r.Get("/v1/tools", s.handleTools)

	return r
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("planning API listening", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("planning API server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("planning API shutdown: %w", err)
	}
	s.logger.Info("planning API stopped")
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method, "path", r.URL.Path, "elapsed", time.Since(started))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
