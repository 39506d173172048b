package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanonone/grafodb/pkg/engine"
)

// Server holds the HTTP interface and the underlying graph Engine.
type Server struct {
	Engine *engine.Engine

	httpServer *http.Server

	authToken string
}

// NewServer initializes the HTTP server using an existing Engine.
// Note: The Engine must be initialized (Open) before passing it here.
func NewServer(eng *engine.Engine, httpAddr string, authToken string) (*Server, error) {
	s := &Server{
		Engine:    eng,
		authToken: authToken,
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain middlewares: Recovery -> Logging -> Auth -> Mux
	// Order matters! Recovery must be outer-most to catch everything.

	var handler http.Handler = mux

	// 1. Auth (Inner)
	handler = s.authMiddleware(handler)

	// 2. Logging (Middle) - Logs duration and status
	handler = s.LoggingMiddleware(handler)

	// 3. Recovery (Outer) - Catches panics
	handler = s.RecoveryMiddleware(handler)

	// healthz and metrics bypass the chain: probes and scrapers carry no token.
	rootMux := http.NewServeMux()
	rootMux.HandleFunc("/healthz", s.handleHealthz)
	rootMux.Handle("/metrics", promhttp.Handler())
	rootMux.Handle("/", handler)
	s.httpServer = &http.Server{
		Addr:    httpAddr,
		Handler: rootMux,
	}

	return s, nil
}

// Run starts the HTTP server and blocks until Shutdown.
func (s *Server) Run() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server.
// It does NOT close the Engine (main.go handles that for proper lifecycle management).
func (s *Server) Shutdown() {
	log.Println("Starting graceful shutdown of HTTP Server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
