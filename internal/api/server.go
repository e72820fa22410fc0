// Package api exposes the dashboard HTTP surface: chat sessions, analysis
// endpoints, and CRUD over the QC entities.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/qcpilot/qcpilot/internal/events"
	"github.com/qcpilot/qcpilot/internal/session"
	"github.com/qcpilot/qcpilot/internal/store"
)

type Server struct {
	router   *chi.Mux
	port     int
	apiToken string
	store    *store.Store
	sessions *session.Manager
	analyzer *session.Analyzer
	events   *events.Client
	logger   *slog.Logger
}

// Deps carries the server's collaborators. Store and Events may be nil in
// tests; handlers that need them return 503.
type Deps struct {
	Port     int
	APIToken string
	Store    *store.Store
	Sessions *session.Manager
	Analyzer *session.Analyzer
	Events   *events.Client
	Logger   *slog.Logger
}

func NewServer(d Deps) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     d.Port,
		apiToken: d.APIToken,
		store:    d.Store,
		sessions: d.Sessions,
		analyzer: d.Analyzer,
		events:   d.Events,
		logger:   d.Logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1/qcpilot", func(r chi.Router) {
		r.Get("/status", s.status)

		r.Group(func(r chi.Router) {
			r.Use(s.bearerAuth)

			r.Post("/sessions", s.createSession)
			r.Get("/sessions/{id}/messages", s.listSessionMessages)
			r.Post("/sessions/{id}/messages", s.postSessionMessage)

			r.Post("/analysis/rating", s.analyzeRating)
			r.Post("/analysis/detailed", s.analyzeDetailed)

			s.mountEntityRoutes(r)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// ServeHTTP makes the server usable directly with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// bearerAuth rejects requests without the configured bearer token. An empty
// configured token disables auth entirely (local development).
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != s.apiToken {
			respondError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "qcpilot",
		"status":  "ready",
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
