package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shubh-37/ideaforge/internal/auth"
	"github.com/shubh-37/ideaforge/internal/engine"
)

type Server struct {
	handlers *Handlers
	verifier auth.Verifier
	health   func(ctx context.Context) error
}

// NewServer wires the authenticated idea endpoints and the unauthenticated
// health check into an HTTP server.
func NewServer(eng *engine.Engine, verifier auth.Verifier, health func(ctx context.Context) error, addr string) *http.Server {
	s := &Server{
		handlers: NewHandlers(eng),
		verifier: verifier,
		health:   health,
	}

	return &http.Server{
		Addr:    addr,
		Handler: corsHeaders(s.routes()),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	h := s.handlers

	mux.HandleFunc("POST /ideas", s.requireAuth(h.HandleCreate))
	mux.HandleFunc("GET /ideas", s.requireAuth(h.HandleList))
	mux.HandleFunc("PATCH /ideas/{id}", s.requireAuth(h.HandleUpdate))
	mux.HandleFunc("DELETE /ideas/{id}", s.requireAuth(h.HandleDelete))

	mux.HandleFunc("POST /ideas/{id}/forge", s.requireAuth(h.HandleForge))
	mux.HandleFunc("POST /ideas/{id}/stress-test", s.requireAuth(h.HandleStressTest))
	mux.HandleFunc("POST /ideas/{id}/consult", s.requireAuth(h.HandleConsult))
	mux.HandleFunc("POST /ideas/{id}/refine", s.requireAuth(h.HandleRefine))

	mux.HandleFunc("POST /ideas/{id}/sparks", s.requireAuth(h.HandleAddSpark))
	mux.HandleFunc("DELETE /ideas/{id}/sparks/{sparkId}", s.requireAuth(h.HandleDeleteSpark))

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// handleHealth reports store connectivity. Unauthenticated.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "DEGRADED",
			"message": "Database unreachable: " + err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "IdeaForge Backend is running",
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("🚀 Server running on %s", srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
