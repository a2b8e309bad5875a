package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/autoforesight/expansionsim/internal/domain"
)

// Server serves archived simulation runs and accepts new run requests over
// JSON and CSV
type Server struct {
	Registry *domain.Registry
	Runs     domain.RunRepository
	Logger   *slog.Logger
	Token    string // optional bearer token; empty disables auth
}

// NewServer creates a new API server instance
func NewServer(registry *domain.Registry, runs domain.RunRepository, logger *slog.Logger, token string) *Server {
	return &Server{
		Registry: registry,
		Runs:     runs,
		Logger:   logger,
		Token:    token,
	}
}

// Handler builds the route table with logging and optional auth applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/simulations", s.handleSimulate)
	mux.HandleFunc("GET /api/simulations", s.handleListRuns)
	mux.HandleFunc("GET /api/simulations/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/simulations/{id}/summary", s.handleGetSummary)
	mux.HandleFunc("GET /api/simulations/{id}/evolution.csv", s.handleGetEvolutionCSV)

	return s.logRequests(s.requireAuth(mux))
}

// Run serves the API until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("api server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		s.Logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// requireAuth checks the Authorization header against the configured bearer
// token. A missing or wrong token yields 401; an empty configured token
// disables the check.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token != s.Token {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// mapError translates domain errors into HTTP status codes: invalid requests
// and unknown entities map to 400, missing runs to 404, everything else to a
// generic 500 with the original error logged.
func (s *Server) mapError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	var confErr *domain.ConfigurationError
	switch {
	case errors.As(err, &valErr), errors.As(err, &confErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRunNotFound):
		writeError(w, http.StatusNotFound, "simulation run not found")
	default:
		s.Logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
