// Package api provides the HTTP surface for the prompt-improvement
// service: routing, request-ID middleware, and response envelopes.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/nlacforge/promptimprove/pkg/config"
	"github.com/nlacforge/promptimprove/pkg/llmclient"
	"github.com/nlacforge/promptimprove/pkg/metrics"
	"github.com/nlacforge/promptimprove/pkg/metricsstore"
	"github.com/nlacforge/promptimprove/pkg/strategy"
	"github.com/nlacforge/promptimprove/pkg/validator"
)

// Server is the HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	cfg            *config.Config
	legacySelector *strategy.Selector
	nlacSelector   *strategy.Selector
	defaultMode    string
	validator      *validator.Validator
	evaluator      *metrics.Evaluator
	analyzer       *metrics.Analyzer
	metricsRepo    metricsstore.Repository
	llmClient      llmclient.LLMClient
}

// NewServer creates a new API server with Echo v5, wired to the
// pipeline and storage components it dispatches requests to.
// legacySelector and nlacSelector correspond to the two selectable
// pipeline modes; a request's "mode" field, or cfg.Pipeline.DefaultMode
// when unset, picks between them.
func NewServer(
	cfg *config.Config,
	legacySelector *strategy.Selector,
	nlacSelector *strategy.Selector,
	val *validator.Validator,
	evaluator *metrics.Evaluator,
	analyzer *metrics.Analyzer,
	metricsRepo metricsstore.Repository,
	llmClient llmclient.LLMClient,
) *Server {
	e := echo.New()

	s := &Server{
		echo:           e,
		cfg:            cfg,
		legacySelector: legacySelector,
		nlacSelector:   nlacSelector,
		defaultMode:    cfg.Pipeline.DefaultMode,
		validator:      val,
		evaluator:      evaluator,
		analyzer:       analyzer,
		metricsRepo:    metricsRepo,
		llmClient:      llmClient,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(2 * 1024 * 1024))
	s.echo.Use(requestIDMiddleware())
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/improve-prompt", s.improvePromptHandler)
	v1.GET("/metrics/summary", s.metricsSummaryHandler)
	v1.GET("/metrics/trends", s.metricsTrendsHandler)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

const requestTimeout = 30 * time.Second
