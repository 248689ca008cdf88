// Package server exposes a computed kinship matrix over HTTP.
//
// A Server is built around a kinship matrix that was computed once before
// it starts, and serves symmetric pair lookups from that in-memory matrix.
// Endpoints:
//
//	GET /healthz                     liveness probe
//	GET /api/v1/sinks                proband ids
//	GET /api/v1/kinship?i=3&j=4      one kinship coefficient
//	GET /api/v1/matrix               dense matrix with index map
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kincut/kincut/pkg/kinship"
)

// Server serves kinship queries from an in-memory matrix.
type Server struct {
	logger *log.Logger
	matrix *kinship.Matrix
}

// New creates a server around a computed matrix.
func New(logger *log.Logger, m *kinship.Matrix) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{logger: logger, matrix: m}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sinks", s.handleSinks)
		r.Get("/kinship", s.handleKinship)
		r.Get("/matrix", s.handleMatrix)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("serving kinship matrix", "addr", addr, "probands", s.matrix.Len())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs one line per request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", w.Header().Get(requestIDHeader))
	})
}

// httpStatus maps a kinship lookup error to an HTTP status.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, kinship.ErrNotASink):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
