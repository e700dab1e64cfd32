package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/llmdocs/internal/config"
	"git.home.luguber.info/inful/llmdocs/internal/docs"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
	"git.home.luguber.info/inful/llmdocs/internal/notify"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
	"git.home.luguber.info/inful/llmdocs/internal/revision"
	"git.home.luguber.info/inful/llmdocs/internal/state"
)

// app holds the components built from a configuration.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	discovery *docs.Discovery
	optimizer *optimizer.Optimizer
	store     *state.SQLiteStore
	bus       *pipeline.Bus
	runner    *pipeline.Runner
	recorder  metrics.Recorder
	registry  *prometheus.Registry
	notifier  *notify.Connection
}

type appOptions struct {
	incremental bool // forces incremental runs regardless of config
	metrics     bool // registers a Prometheus recorder
}

func newApp(cfg *config.Config, logger *slog.Logger, o appOptions) (*app, error) {
	a := &app{cfg: cfg, logger: logger, recorder: metrics.NoopRecorder{}, bus: pipeline.NewBus()}
	if o.metrics {
		a.registry = prometheus.NewRegistry()
		a.recorder = metrics.NewPrometheusRecorder(a.registry)
	}

	a.discovery = docs.NewDiscovery(cfg.ContentDir(), docs.Options{
		Extensions: cfg.Content.Extensions,
		Exclude:    cfg.Content.Exclude,
		SkipDirs:   []string{cfg.OutputDir()},
	})
	a.optimizer = newOptimizer(cfg, logger, a.recorder)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a.store = store

	if cfg.Notify.Enabled() {
		conn, err := notify.Connect(cfg.Notify, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		conn.Attach(a.bus)
		a.notifier = conn
	}

	a.runner = pipeline.NewRunner(a.discovery, a.optimizer, pipeline.Options{
		OutputDir:   cfg.OutputDir(),
		IndexFile:   cfg.Output.IndexFile,
		Title:       cfg.Output.Title,
		Description: cfg.Output.Description,
		Concurrency: cfg.Output.Concurrency,
		Incremental: cfg.State.Incremental || o.incremental,
		Clean:       cfg.Output.Clean,
	},
		pipeline.WithStore(store),
		pipeline.WithRecorder(a.recorder),
		pipeline.WithBus(a.bus),
		pipeline.WithLogger(logger),
		pipeline.WithRevision(revision.Lookup(cfg.ContentDir(), logger)),
	)
	return a, nil
}

func newOptimizer(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) *optimizer.Optimizer {
	return optimizer.New(
		optimizer.WithLogger(logger),
		optimizer.WithRecorder(rec),
		optimizer.WithDefaults(optimizer.Hints{
			Package:    cfg.Hints.Package,
			Scope:      cfg.Hints.Scope,
			Complexity: cfg.Hints.Complexity,
		}),
	)
}

func openStore(cfg *config.Config) (*state.SQLiteStore, error) {
	path := cfg.StatePath()
	if path != config.MemoryStatePath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create state directory").
				WithContext("path", path).
				Build()
		}
	}
	return state.Open(path)
}

// printProgress writes one line per processed document to w.
func (a *app) printProgress(w io.Writer) {
	var mu sync.Mutex
	line := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintf(w, format, args...)
	}
	a.bus.Subscribe(pipeline.EventDocumentOptimized, func(e pipeline.Event) error {
		if d, ok := e.(pipeline.DocumentOptimized); ok {
			line("optimized %s (~%d tokens, frontmatter %s)\n", d.Path, d.Tokens, d.FrontmatterStatus)
		}
		return nil
	})
	a.bus.Subscribe(pipeline.EventDocumentSkipped, func(e pipeline.Event) error {
		if d, ok := e.(pipeline.DocumentSkipped); ok {
			line("unchanged %s\n", d.Path)
		}
		return nil
	})
	a.bus.Subscribe(pipeline.EventDocumentFailed, func(e pipeline.Event) error {
		if d, ok := e.(pipeline.DocumentFailed); ok {
			line("failed    %s: %v\n", d.Path, d.Err)
		}
		return nil
	})
	a.bus.Subscribe(pipeline.EventDocumentRemoved, func(e pipeline.Event) error {
		if d, ok := e.(pipeline.DocumentRemoved); ok {
			line("removed   %s\n", d.Path)
		}
		return nil
	})
}

func (a *app) run(ctx context.Context, trigger string) (*pipeline.Report, error) {
	report, err := a.runner.Run(ctx, trigger)
	if err != nil {
		return report, err
	}
	return report, report.Err()
}

func (a *app) Close() error {
	nerr := a.notifier.Close()
	if a.store == nil {
		return nerr
	}
	if err := a.store.Close(); err != nil {
		return err
	}
	return nerr
}
