package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/metrics"
	"github.com/csradar/csradar/internal/store"
)

// Server wires HTTP handlers to the read side of the store.
type Server struct {
	router chi.Router
	reader store.Reader
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(reader store.Reader, logger *zap.Logger) *Server {
	s := &Server{
		reader: reader,
		logger: logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", s.listTeams)
			r.Route("/{team_id}", func(r chi.Router) {
				r.Get("/", s.getTeam)
				r.Get("/players", s.listTeamPlayers)
			})
		})
		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.listPlayers)
			r.Get("/search", s.searchPlayers)
			r.Get("/{player_id}", s.getPlayer)
		})
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
