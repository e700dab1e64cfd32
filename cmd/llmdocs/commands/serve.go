package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/llmdocs/internal/config"
	"git.home.luguber.info/inful/llmdocs/internal/content"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
	"git.home.luguber.info/inful/llmdocs/internal/server/httpserver"
	"git.home.luguber.info/inful/llmdocs/internal/watch"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr         string `help:"Listen address (overrides server.addr)"`
	Watch        bool   `short:"w" help:"Watch the content directory even when watch.enabled is false"`
	NoInitialRun bool   `name:"no-initial-run" help:"Skip the optimization run at startup"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.Watch {
		cfg.Watch.Enabled = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return runServe(ctx, g.Logger, cfg, !s.NoInitialRun)
}

// runServe runs the server plus optional watcher and scheduler until ctx is canceled.
func runServe(ctx context.Context, logger *slog.Logger, cfg *config.Config, initialRun bool) error {
	a, err := newApp(cfg, logger, appOptions{metrics: cfg.Monitoring.Metrics.Enabled})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Warn("Failed to close application resources", logfields.Error(cerr))
		}
	}()
	a.bus.Subscribe(pipeline.EventIndexWritten, func(e pipeline.Event) error {
		if iw, ok := e.(pipeline.IndexWritten); ok {
			logger.Debug("Index updated", logfields.Path(iw.Path), slog.Int("entries", iw.Entries))
		}
		return nil
	})

	if initialRun {
		if _, err := a.run(ctx, pipeline.TriggerStartup); err != nil {
			logger.Warn("Startup run had errors", logfields.Error(err))
		}
	}

	opts := httpserver.Options{
		Addr:            cfg.Server.Addr,
		HealthPath:      cfg.Monitoring.Health.Path,
		ShutdownTimeout: cfg.ShutdownTimeout(),
		Compress:        cfg.Server.Compress,
		RunsPerMinute:   cfg.Server.RunsPerMinute,
	}
	if a.registry != nil {
		opts.MetricsPath = cfg.Monitoring.Metrics.Path
		opts.MetricsHandler = metrics.HTTPHandler(a.registry)
	}
	srv := httpserver.New(opts, httpserver.Deps{
		Loader:    content.NewLoader(a.discovery),
		Optimizer: a.optimizer,
		Index:     a.runner,
		Stats:     a.store,
		Runner:    a.runner,
		Recorder:  a.recorder,
		Logger:    logger,
	})

	group, gctx := errgroup.WithContext(ctx)

	var sched *watch.Scheduler
	if interval := cfg.ScheduleInterval(); interval > 0 {
		sched, err = watch.NewScheduler(a.runner, logger)
		if err != nil {
			return err
		}
		if _, err := sched.SchedulePeriodicRun(gctx, interval); err != nil {
			_ = sched.Stop()
			return err
		}
	}

	group.Go(func() error { return srv.Run(gctx) })
	if sched != nil {
		group.Go(func() error { return sched.Run(gctx) })
	}
	if cfg.Watch.Enabled {
		w := watch.NewWatcher(a.discovery, a.runner,
			watch.WithDebounce(cfg.DebounceDuration()),
			watch.WithLogger(logger))
		group.Go(func() error { return w.Run(gctx) })
	}

	logger.Info("llmdocs serving",
		slog.String("addr", cfg.Server.Addr),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.Duration("schedule", cfg.ScheduleInterval()),
		slog.Bool("metrics", a.registry != nil))
	return group.Wait()
}
