// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/whitmore/dripline/internal/analyze"
	"github.com/whitmore/dripline/internal/api/handler"
	"github.com/whitmore/dripline/internal/api/middleware"
	"github.com/whitmore/dripline/internal/config"
	"github.com/whitmore/dripline/internal/metrics"
	"go.uber.org/zap"
)

// Server represents the HTTP server for dripline.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.Config,
	analyzer *analyze.Analyzer,
	reg *metrics.Registry,
	version string,
	logger *zap.Logger,
) *Server {
	mux := http.NewServeMux()

	analyzeHandler := handler.NewAnalyzeHandler(analyzer, logger)
	healthHandler := handler.NewHealthHandler(version)

	auth := middleware.APIKeyAuth(cfg.Server.APIKey)
	mux.Handle("/api/v1/analyze", auth(http.HandlerFunc(analyzeHandler.Analyze)))
	mux.HandleFunc("/api/v1/health", healthHandler.Health)

	if cfg.Metrics.Enabled && reg != nil {
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(
			reg.Registry, promhttp.HandlerOpts{}))
	}

	var root http.Handler = mux
	if reg != nil {
		root = metrics.HTTPMiddleware(reg)(root)
	}
	root = middleware.RequestID(root)

	requestTimeout := time.Duration(cfg.Server.RequestTimeout) * time.Second

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      http.TimeoutHandler(root, requestTimeout, `{"error":{"code":"TIMEOUT","message":"request timed out"}}`),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: requestTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
