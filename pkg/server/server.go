// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	POST /api/v1/convert  convert one automaton
//	GET  /healthz         liveness check
//	GET  /metrics         Prometheus metrics
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status given by [errors.HTTPStatus].
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/toparity/pkg/buildinfo"
	"github.com/matzehuels/toparity/pkg/config"
	"github.com/matzehuels/toparity/pkg/observability"
	"github.com/matzehuels/toparity/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	Server config.ServerConfig
	// Convert caps the limits a request may ask for.
	Convert config.ConvertConfig
	// Gatherer serves /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Hooks receives request events. Nil means the global HTTP hooks.
	Hooks observability.HTTPHooks
}

// Server is the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.HTTP()
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.Server.ReadTimeout.Duration,
		WriteTimeout: s.opts.Server.WriteTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "version", buildinfo.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
