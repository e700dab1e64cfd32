package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/llmdocs/internal/config"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
	"git.home.luguber.info/inful/llmdocs/internal/watch"
)

// OptimizeCmd implements the 'optimize' command.
type OptimizeCmd struct {
	Path        string `arg:"" optional:"" help:"Markdown file or content directory (default: configured content dir)" type:"path"`
	Output      string `short:"o" help:"Write a single optimized file here instead of stdout" type:"path"`
	Incremental bool   `short:"i" help:"Skip documents whose source is unchanged since the last run"`
	Watch       bool   `short:"w" help:"Keep watching the content directory after the run"`
	Quiet       bool   `short:"q" help:"Do not list processed documents"`
}

func (o *OptimizeCmd) Run(g *Global, root *CLI) error {
	if o.Path != "" {
		fi, err := os.Stat(o.Path)
		if err != nil {
			return derrors.NotFoundError("path not found").WithContext("path", o.Path).Build()
		}
		if !fi.IsDir() {
			return o.optimizeFile(g, root)
		}
	}
	if o.Output != "" {
		return derrors.ValidationError("--output applies to single files; set output.dir for directories").Build()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return o.optimizeTree(ctx, g, root)
}

func (o *OptimizeCmd) optimizeFile(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(o.Path)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read document").
			WithContext("path", o.Path).
			Build()
	}
	opt := newOptimizer(cfg, g.Logger, metrics.NoopRecorder{})
	res := opt.OptimizeNamed(o.Path, string(data))
	g.Logger.Info("Optimized document",
		logfields.Path(o.Path),
		logfields.Tokens(res.TokenEstimate),
		logfields.FrontmatterStatus(res.FrontmatterStatus.String()))

	if o.Output == "" {
		_, err := fmt.Fprint(g.Stdout, res.Content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(o.Output), 0o750); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create output directory").Build()
	}
	if err := os.WriteFile(o.Output, []byte(res.Content), 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write optimized document").
			WithContext("path", o.Output).
			Build()
	}
	return nil
}

func (o *OptimizeCmd) optimizeTree(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if o.Path != "" {
		overrideContentDir(cfg, o.Path)
	}

	a, err := newApp(cfg, g.Logger, appOptions{incremental: o.Incremental})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			g.Logger.Warn("Failed to close state store", logfields.Error(cerr))
		}
	}()
	if !o.Quiet {
		a.printProgress(g.Stdout)
	}

	report, runErr := a.run(ctx, pipeline.TriggerCLI)
	if report != nil {
		printSummary(g, report)
	}
	if !o.Watch || ctx.Err() != nil {
		return runErr
	}
	if runErr != nil {
		g.Logger.Warn("Initial run had errors, watching anyway", logfields.Error(runErr))
	}

	w := watch.NewWatcher(a.discovery, a.runner,
		watch.WithDebounce(cfg.DebounceDuration()),
		watch.WithLogger(g.Logger))
	return w.Run(ctx)
}

func overrideContentDir(cfg *config.Config, dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	cfg.Content.Dir = dir
}

func printSummary(g *Global, r *pipeline.Report) {
	_, _ = fmt.Fprintf(g.Stdout,
		"%d documents: %d optimized, %d unchanged, %d removed, %d failed (~%d tokens, %s)\n",
		r.Documents, r.Optimized, r.Skipped, r.Removed, len(r.Failed), r.Tokens, r.Outcome)
	if r.IndexPath != "" {
		_, _ = fmt.Fprintf(g.Stdout, "index: %s\n", r.IndexPath)
	}
	g.Logger.Debug("Run summary", logfields.RunID(r.RunID), slog.Duration("duration", r.Duration))
}
