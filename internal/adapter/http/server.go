// Package http exposes the enrichment trigger and operational endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Enricher runs one enrichment pass over the given place ids.
type Enricher interface {
	Enrich(ctx context.Context, ids []string, batchMode bool) (domain.BatchReport, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the enrichment trigger plus health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer *http.Server
	enricher   Enricher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/enrichment, /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, enricher Enricher, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// No write timeout: a bulk run is paced by the provider limiter
			// at roughly one place per second, so its duration scales with
			// the batch, not with a fixed deadline.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		enricher: enricher,
		logger:   logger,
	}

	mux.HandleFunc("POST /v1/enrichment", s.handleEnrich)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type enrichRequest struct {
	IDs   []string `json:"ids"`
	Batch bool     `json:"batch"`
}

// handleEnrich triggers one enrichment run. Partial failures come back
// in-band inside the 200 report; non-2xx is reserved for invalid input and
// failures before any per-place work started.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ids must not be empty"})
		return
	}

	report, err := s.enricher.Enrich(r.Context(), req.IDs, req.Batch)
	if err != nil {
		s.logger.Error("enrichment run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "enrichment failed"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
