// Package server exposes the genre directory and the paginated listings as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lepinkainen/cinefeed/internal/browse"
	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/genre"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	source    browse.Source
	resolver  *genre.Resolver
	validator *requestValidator
	feedOpts  []feed.Option
	router    *chi.Mux
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs and handler errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFeedOptions passes options to every feed the handlers create.
func WithFeedOptions(opts ...feed.Option) Option {
	return func(s *Server) {
		s.feedOpts = append(s.feedOpts, opts...)
	}
}

// New creates a Server with all routes configured.
func New(source browse.Source, opts ...Option) *Server {
	s := &Server{
		source:    source,
		validator: newRequestValidator(),
		router:    chi.NewRouter(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = genre.NewResolver(source, s.logger)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(escapedRoutePath)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(requestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/genres/{mediaType}", func(r chi.Router) {
			r.Get("/", s.handleGenreDirectory)
			r.Get("/{slug}", s.handleGetGenre)
			r.Get("/{slug}/items", s.handleGenreItems)
		})
		r.Get("/{mediaType}/{category}", s.handleCategoryItems)
	})

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusNotFound, "route not found", s.logger)
	})
}

// escapedRoutePath routes on the escaped request path, so URL params hold the
// raw segment and handlers decode it exactly once.
func escapedRoutePath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath == "" {
			rctx.RoutePath = r.URL.EscapedPath()
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
