// Package pipeline runs the optimizer over a content tree.
//
// A run discovers every Markdown document, optimizes the ones that changed,
// writes them below the output directory and rewrites the llms.txt index.
// Documents are processed by a bounded worker group; a failing document is
// reported and does not stop the run, a canceled context does.
package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/llmdocs/internal/docs"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
	"git.home.luguber.info/inful/llmdocs/internal/state"
)

// Trigger names recorded with runs.
const (
	TriggerCLI      = "cli"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerStartup  = "startup"
)

// Options configures a Runner.
type Options struct {
	OutputDir   string
	IndexFile   string // file name below OutputDir; empty disables the index
	Title       string
	Description string
	Concurrency int  // <= 0 uses GOMAXPROCS
	Incremental bool // skip documents whose source fingerprint is unchanged (needs a store)
	Clean       bool // remove OutputDir before non-incremental runs
}

// Runner executes pipeline runs. Runs and single-file updates are serialized.
type Runner struct {
	discovery *docs.Discovery
	optimizer *optimizer.Optimizer
	opts      Options
	store     state.Store
	recorder  metrics.Recorder
	bus       *Bus
	logger    *slog.Logger
	revision  func(context.Context) string

	runMu   sync.Mutex
	indexMu sync.Mutex
	entries map[string]IndexEntry
}

// RunnerOption configures optional Runner collaborators.
type RunnerOption func(*Runner)

// WithStore enables incremental state tracking.
func WithStore(s state.Store) RunnerOption { return func(r *Runner) { r.store = s } }

// WithRecorder sets the metrics recorder.
func WithRecorder(m metrics.Recorder) RunnerOption {
	return func(r *Runner) {
		if m != nil {
			r.recorder = m
		}
	}
}

// WithBus publishes pipeline events to b.
func WithBus(b *Bus) RunnerOption { return func(r *Runner) { r.bus = b } }

// WithRevision records the content revision returned by fn with every run.
func WithRevision(fn func(context.Context) string) RunnerOption {
	return func(r *Runner) { r.revision = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(d *docs.Discovery, o *optimizer.Optimizer, opts Options, options ...RunnerOption) *Runner {
	if o == nil {
		o = optimizer.New()
	}
	r := &Runner{
		discovery: d,
		optimizer: o,
		opts:      opts,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		entries:   map[string]IndexEntry{},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Bus returns the event bus, nil when none is configured.
func (r *Runner) Bus() *Bus { return r.bus }

// IndexPath returns the absolute llms.txt path, or "" when disabled.
func (r *Runner) IndexPath() string {
	if r.opts.IndexFile == "" {
		return ""
	}
	return filepath.Join(r.opts.OutputDir, r.opts.IndexFile)
}

// Entries returns the current index entries sorted by path.
func (r *Runner) Entries() []IndexEntry {
	r.indexMu.Lock()
	defer r.indexMu.Unlock()
	out := make([]IndexEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out
}

// Index renders the current llms.txt content.
func (r *Runner) Index() string {
	return BuildIndex(r.title(), r.opts.Description, r.Entries())
}

// Run optimizes the whole content tree.
func (r *Runner) Run(ctx context.Context, trigger string) (*Report, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	report := &Report{RunID: uuid.NewString(), Trigger: trigger, Start: time.Now()}
	if r.revision != nil {
		report.Revision = r.revision(ctx)
	}
	log := r.logger.With(logfields.RunID(report.RunID))
	log.Info("Pipeline run started", slog.String("trigger", trigger), slog.String("revision", report.Revision))
	r.publish(RunStarted{RunID: report.RunID, Trigger: trigger})
	r.beginRun(ctx, report)

	err := r.run(ctx, report, log)
	report.finish(err, ctx.Err() != nil)

	r.recorder.IncRunOutcome(report.Outcome)
	r.recorder.ObserveRunDuration(report.Duration)
	r.finishRun(report)
	r.publish(RunCompleted{Report: report})

	log.Info("Pipeline run finished",
		logfields.Documents(report.Documents),
		logfields.Skipped(report.Skipped),
		logfields.Tokens(report.Tokens),
		slog.Int("failed", len(report.Failed)),
		slog.String("outcome", string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, err
}

func (r *Runner) run(ctx context.Context, report *Report, log *slog.Logger) error {
	if r.opts.Clean && !r.incremental() {
		if err := os.RemoveAll(r.opts.OutputDir); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", r.opts.OutputDir).
				Build()
		}
	}

	files, err := r.discovery.Discover(ctx)
	if err != nil {
		return err
	}
	report.Documents = len(files)

	var (
		mu      sync.Mutex
		entries = make(map[string]IndexEntry, len(files))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())
	for _, df := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, skipped, err := r.processDocument(gctx, report.RunID, df)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil && gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				log.Warn("Document failed", logfields.File(df.RelativePath), logfields.Error(err))
				report.Failed = append(report.Failed, FileError{Path: df.RelativePath, Err: err})
				r.publish(DocumentFailed{RunID: report.RunID, Path: df.RelativePath, Err: err})
				return nil
			case skipped:
				report.Skipped++
			default:
				report.Optimized++
			}
			report.Tokens += entry.Tokens
			entries[entry.Path] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := r.removeStale(ctx, report, files); err != nil {
		return err
	}

	r.indexMu.Lock()
	r.entries = entries
	r.indexMu.Unlock()

	path, err := r.writeIndex()
	if err != nil {
		return err
	}
	report.IndexPath = path
	return nil
}

// RunFile re-optimizes a single document given its path relative to the
// content root, then rewrites the index. A Markdown path that no longer
// names a document is treated as removed; other paths are ignored and
// yield a nil entry.
func (r *Runner) RunFile(ctx context.Context, rel string) (*IndexEntry, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	rel = filepath.ToSlash(rel)
	df, ok := r.discovery.Lookup(rel)
	if !ok {
		if !r.discovery.Matches(rel) {
			return nil, nil
		}
		return nil, r.removeLocked(ctx, rel)
	}

	r.seedEntries(ctx)
	runID := uuid.NewString()
	entry, _, err := r.processDocument(ctx, runID, df)
	if err != nil {
		r.publish(DocumentFailed{RunID: runID, Path: rel, Err: err})
		return nil, err
	}
	r.indexMu.Lock()
	r.entries[entry.Path] = entry
	r.indexMu.Unlock()

	if _, err := r.writeIndex(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveFile deletes the optimized copy and stored state of a source document.
func (r *Runner) RemoveFile(ctx context.Context, rel string) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	rel = filepath.ToSlash(rel)
	if !r.discovery.Matches(rel) {
		return nil
	}
	return r.removeLocked(ctx, rel)
}

func (r *Runner) removeLocked(ctx context.Context, rel string) error {
	r.seedEntries(ctx)
	if err := r.removeDocument(ctx, "", rel); err != nil {
		return err
	}
	r.indexMu.Lock()
	delete(r.entries, rel)
	r.indexMu.Unlock()
	_, err := r.writeIndex()
	return err
}

// seedEntries loads index entries from the store when no full run has
// populated them yet, so single-file updates do not shrink the index.
func (r *Runner) seedEntries(ctx context.Context) {
	r.indexMu.Lock()
	defer r.indexMu.Unlock()
	if len(r.entries) > 0 || r.store == nil {
		return
	}
	stored, err := r.store.List(ctx)
	if err != nil {
		r.logger.Warn("Failed to load index entries from state", logfields.Error(err))
		return
	}
	for _, d := range stored {
		r.entries[d.Path] = entryFromDocument(d)
	}
}

// processDocument optimizes one document unless it is unchanged. It returns
// the index entry and whether the document was skipped.
func (r *Runner) processDocument(ctx context.Context, runID string, df docs.DocFile) (IndexEntry, bool, error) {
	data, err := df.Load()
	if err != nil {
		return IndexEntry{}, false, err
	}
	raw := string(data)
	sourceFP := state.SourceFingerprint(raw)
	outPath := r.outputPath(df.RelativePath)

	if prev, ok := r.unchanged(ctx, df.RelativePath, sourceFP, outPath); ok {
		r.recorder.IncSkipped()
		r.publish(DocumentSkipped{RunID: runID, Path: df.RelativePath})
		return entryFromDocument(prev), true, nil
	}

	res := r.optimizer.OptimizeNamed(df.RelativePath, raw)
	if err := writeFileAtomic(outPath, []byte(res.Content)); err != nil {
		return IndexEntry{}, false, err
	}

	entry := IndexEntry{
		Path:   df.RelativePath,
		Title:  documentTitle(res, df),
		Hints:  res.Hints,
		Tokens: res.TokenEstimate,
	}
	if r.store != nil {
		err := r.store.Upsert(ctx, state.Document{
			Path:              df.RelativePath,
			SourceFingerprint: sourceFP,
			OutputFingerprint: state.OutputFingerprint(res.Content),
			Title:             entry.Title,
			Package:           res.Hints.Package,
			Scope:             res.Hints.Scope,
			Complexity:        res.Hints.Complexity,
			Tokens:            res.TokenEstimate,
			FrontmatterStatus: res.FrontmatterStatus.String(),
			RunID:             runID,
		})
		if err != nil {
			return IndexEntry{}, false, err
		}
	}

	r.logger.Debug("Document optimized",
		logfields.RunID(runID),
		logfields.File(df.RelativePath),
		logfields.Tokens(res.TokenEstimate),
		logfields.FrontmatterStatus(res.FrontmatterStatus.String()))
	r.publish(DocumentOptimized{
		RunID:             runID,
		Path:              df.RelativePath,
		Tokens:            res.TokenEstimate,
		FrontmatterStatus: res.FrontmatterStatus.String(),
	})
	return entry, false, nil
}

// unchanged reports whether the stored state proves the output is current.
func (r *Runner) unchanged(ctx context.Context, rel, sourceFP, outPath string) (state.Document, bool) {
	if !r.incremental() {
		return state.Document{}, false
	}
	prev, ok, err := r.store.Get(ctx, rel)
	if err != nil {
		r.logger.Warn("State lookup failed", logfields.File(rel), logfields.Error(err))
		return state.Document{}, false
	}
	if !ok || prev.SourceFingerprint != sourceFP {
		return state.Document{}, false
	}
	current, err := os.ReadFile(outPath)
	if err != nil || state.OutputFingerprint(string(current)) != prev.OutputFingerprint {
		return state.Document{}, false
	}
	return prev, true
}

// removeStale drops stored documents whose source no longer exists.
func (r *Runner) removeStale(ctx context.Context, report *Report, files []docs.DocFile) error {
	if r.store == nil {
		return nil
	}
	stored, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f.RelativePath] = struct{}{}
	}
	for _, doc := range stored {
		if _, ok := present[doc.Path]; ok {
			continue
		}
		if err := r.removeDocument(ctx, report.RunID, doc.Path); err != nil {
			return err
		}
		report.Removed++
	}
	return nil
}

func (r *Runner) removeDocument(ctx context.Context, runID, rel string) error {
	err := os.Remove(r.outputPath(rel))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to remove optimized document").
			WithContext("path", rel).
			Build()
	}
	if r.store != nil {
		if err := r.store.Delete(ctx, rel); err != nil {
			return err
		}
	}
	r.logger.Info("Removed optimized document", logfields.File(rel))
	r.publish(DocumentRemoved{RunID: runID, Path: rel})
	return nil
}

func (r *Runner) writeIndex() (string, error) {
	path := r.IndexPath()
	if path == "" {
		return "", nil
	}
	entries := r.Entries()
	if err := writeFileAtomic(path, []byte(BuildIndex(r.title(), r.opts.Description, entries))); err != nil {
		return "", err
	}
	r.publish(IndexWritten{Path: path, Entries: len(entries)})
	return path, nil
}

func (r *Runner) beginRun(ctx context.Context, report *Report) {
	if r.store == nil {
		return
	}
	err := r.store.BeginRun(context.WithoutCancel(ctx), state.Run{
		ID:          report.RunID,
		TriggeredBy: report.Trigger,
		Revision:    report.Revision,
		StartTime:   report.Start,
	})
	if err != nil {
		r.logger.Warn("Failed to record run start", logfields.RunID(report.RunID), logfields.Error(err))
	}
}

func (r *Runner) finishRun(report *Report) {
	if r.store == nil {
		return
	}
	// the run context may already be canceled; the record is still written
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := r.store.FinishRun(ctx, state.Run{
		ID:        report.RunID,
		Status:    runStatus(report.Outcome),
		EndTime:   report.Start.Add(report.Duration),
		Documents: report.Documents,
		Optimized: report.Optimized,
		Skipped:   report.Skipped,
		Failed:    len(report.Failed),
		Tokens:    report.Tokens,
	})
	if err != nil {
		r.logger.Warn("Failed to record run result", logfields.RunID(report.RunID), logfields.Error(err))
	}
}

func (r *Runner) publish(e Event) {
	_ = r.bus.Publish(e)
}

func (r *Runner) incremental() bool {
	return r.opts.Incremental && r.store != nil
}

func (r *Runner) concurrency() int {
	if r.opts.Concurrency > 0 {
		return r.opts.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Runner) title() string {
	if r.opts.Title != "" {
		return r.opts.Title
	}
	return "Documentation"
}

func (r *Runner) outputPath(rel string) string {
	return filepath.Join(r.opts.OutputDir, filepath.FromSlash(rel))
}

func runStatus(o metrics.RunOutcome) state.RunStatus {
	switch o {
	case metrics.RunSuccess:
		return state.RunStatusCompleted
	case metrics.RunPartial:
		return state.RunStatusPartial
	case metrics.RunCanceled:
		return state.RunStatusCanceled
	default:
		return state.RunStatusFailed
	}
}

func entryFromDocument(d state.Document) IndexEntry {
	return IndexEntry{
		Path:   d.Path,
		Title:  d.Title,
		Hints:  optimizer.Hints{Package: d.Package, Scope: d.Scope, Complexity: d.Complexity},
		Tokens: d.Tokens,
	}
}
