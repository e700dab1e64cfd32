package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/llmdocs/internal/metrics"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
	"git.home.luguber.info/inful/llmdocs/internal/server/handlers"
)

// Options configures the HTTP server.
type Options struct {
	Addr            string
	HealthPath      string       // defaults to /healthz
	MetricsPath     string       // only served when MetricsHandler is set
	MetricsHandler  http.Handler // e.g. metrics.HTTPHandler(registry)
	ShutdownTimeout time.Duration
	Compress        bool // gzip responses for clients that accept it
	RunsPerMinute   int  // POST /api/runs budget; <= 0 disables limiting
}

// Deps are the collaborators behind the routes. Loader is required; routes
// whose dependency is nil are not registered.
type Deps struct {
	Loader    handlers.PageLoader
	Optimizer *optimizer.Optimizer
	Index     handlers.IndexSource
	Stats     handlers.StatsSource
	Runner    handlers.TriggerRun
	Recorder  metrics.Recorder
	Logger    *slog.Logger
}
