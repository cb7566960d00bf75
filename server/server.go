// Package server exposes profile resolution and the edge store over HTTP for
// a browser graph front-end.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/metrics"
	"github.com/tranvictor/ensgraph/store"
)

type Server struct {
	resolver    ens.ProfileResolver
	edges       store.Mirrored
	metrics     *metrics.Metrics
	logger      *zap.Logger
	corsOrigins []string
}

type Option func(*Server)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCORSOrigins allows browser front-ends served from origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

func New(resolver ens.ProfileResolver, edges store.Mirrored, opts ...Option) *Server {
	s := &Server{
		resolver: resolver,
		edges:    edges,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

// Router wires every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)
	r.Get("/profiles/{name}", s.getProfile)
	r.Post("/pairs/validate", s.validatePairs)
	r.Post("/graph", s.buildGraph)
	r.Route("/edges", func(r chi.Router) {
		r.Get("/", s.listEdges)
		r.Post("/", s.addEdge)
		r.Delete("/", s.removeEdge)
		r.Delete("/all", s.clearEdges)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// observe logs and counts every request by its route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, ww.Status(), start)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
