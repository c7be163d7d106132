// Package server implements the HTTP API for the assistant: the chat
// endpoint plus read-only lookups over the process graph and the facts
// registry.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/opencivic/civicassist/facts"
	"github.com/opencivic/civicassist/graph"
	"github.com/opencivic/civicassist/pkg/logging"
)

const defaultMaxRequestBodyBytes = 1 << 20

// Server is the civicassist HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Config holds the dependencies and settings for creating a Server.
type Config struct {
	Agent  Asker
	Graph  graph.Store
	Facts  facts.Store
	Logger *slog.Logger

	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64
}

// New creates an HTTP server with all routes configured.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.WithComponent("server")
	}
	if cfg.MaxRequestBodyBytes <= 0 {
		cfg.MaxRequestBodyBytes = defaultMaxRequestBodyBytes
	}

	h := &Handlers{
		agent:               cfg.Agent,
		graph:               cfg.Graph,
		facts:               cfg.Facts,
		logger:              logger,
		startedAt:           time.Now(),
		version:             cfg.Version,
		maxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat/message", h.HandleChatMessage)

	mux.HandleFunc("GET /api/processes", h.HandleListProcesses)
	mux.HandleFunc("GET /api/processes/{process_id}", h.HandleGetProcess)
	mux.HandleFunc("GET /api/processes/{process_id}/steps", h.HandleGetProcessSteps)
	mux.HandleFunc("GET /api/facts", h.HandleListFacts)
	mux.HandleFunc("GET /api/facts/{fact_id}", h.HandleGetFact)

	mux.HandleFunc("GET /healthz", h.HandleHealth)

	// Middleware chain (outermost executes first):
	// request ID → tracing → logging → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(logger, handler)
	handler = loggingMiddleware(logger, handler)
	handler = tracingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  logger,
	}
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
