// Package httpserver wires the llmdocs HTTP routes and manages the listener lifecycle.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/server/handlers"
	smw "git.home.luguber.info/inful/llmdocs/internal/server/middleware"
)

const (
	defaultHealthPath      = "/healthz"
	defaultShutdownTimeout = 10 * time.Second
)

// Server serves documents, the llms.txt index and monitoring endpoints.
type Server struct {
	opts    Options
	deps    Deps
	logger  *slog.Logger
	handler http.Handler

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// New constructs a server and its route table.
func New(opts Options, deps Deps) *Server {
	if opts.HealthPath == "" {
		opts.HealthPath = defaultHealthPath
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{opts: opts, deps: deps, logger: logger}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	adapter := derrors.NewHTTPErrorAdapter(s.logger)
	chain := smw.Chain(s.logger, adapter, s.deps.Recorder)
	mux := http.NewServeMux()
	handle := func(pattern, route string, h http.HandlerFunc) {
		mux.Handle(pattern, chain(route, h))
	}

	docs := handlers.NewDocsHandlers(s.deps.Loader, s.deps.Optimizer, s.logger)
	handle("GET /content/{path...}", "content", docs.HandleContent)
	handle("GET /llm/{path...}", "llm", docs.HandleLLM)
	handle("GET /render/{path...}", "render", docs.HandleRender)
	handle("GET /api/frontmatter/{path...}", "frontmatter", docs.HandleFrontmatter)

	if s.deps.Index != nil {
		handle("GET /llms.txt", "index", handlers.HandleIndex(s.deps.Index))
	}

	monitoring := handlers.NewMonitoringHandlers(s.deps.Stats, s.logger)
	handle("GET "+s.opts.HealthPath, "health", monitoring.HandleHealthCheck)
	if s.deps.Stats != nil {
		handle("GET /api/stats", "stats", monitoring.HandleStats)
	}
	if s.deps.Runner != nil {
		runs := handlers.NewRunHandlers(s.deps.Runner, s.logger)
		limited := smw.RateLimit(s.runLimiter(), adapter, s.logger)(http.HandlerFunc(runs.HandleTriggerRun))
		mux.Handle("POST /api/runs", chain("runs", limited))
	}
	if s.opts.MetricsHandler != nil && s.opts.MetricsPath != "" {
		mux.Handle("GET "+s.opts.MetricsPath, s.opts.MetricsHandler)
	}
	if s.opts.Compress {
		return gzhttp.GzipHandler(mux)
	}
	return mux
}

func (s *Server) runLimiter() *rate.Limiter {
	if s.opts.RunsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.opts.RunsPerMinute)), s.opts.RunsPerMinute)
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return derrors.RuntimeError("server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "http startup failed").
			Fatal().
			WithContext("addr", s.opts.Addr).
			Build()
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv, s.ln = srv, ln

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}()
	s.logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "http server shutdown").Build()
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Run starts the server and blocks until ctx is canceled, then shuts down
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}
