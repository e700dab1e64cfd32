package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/llmdocs/internal/docs"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
)

// DefaultDebounce is used when no debounce window is configured.
const DefaultDebounce = 300 * time.Millisecond

// FileRunner is the part of the pipeline the watcher drives.
type FileRunner interface {
	Run(ctx context.Context, trigger string) (*pipeline.Report, error)
	RunFile(ctx context.Context, rel string) (*pipeline.IndexEntry, error)
	RemoveFile(ctx context.Context, rel string) error
}

type change int

const (
	changeWrite change = iota + 1
	changeRemove
)

// batch is the set of changes collected during one debounce window.
type batch struct {
	files map[string]change
	full  bool
}

func (b batch) empty() bool { return !b.full && len(b.files) == 0 }

// Watcher re-optimizes documents as the content tree changes.
type Watcher struct {
	discovery *docs.Discovery
	runner    FileRunner
	debounce  time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	pending batch
	timer   *time.Timer
	closed  bool
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a burst of events is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher over the discovery's content root.
func NewWatcher(d *docs.Discovery, runner FileRunner, opts ...Option) *Watcher {
	w := &Watcher{
		discovery: d,
		runner:    runner,
		debounce:  DefaultDebounce,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run watches until ctx is canceled. Pending work is dropped on
// cancellation, but a batch already being processed is waited for.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() {
		w.shutdown()
		if err := fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	root := w.discovery.Root()
	if err := w.addDirsRecursive(fsw, root); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to watch content directory").
			WithContext("dir", root).
			Build()
	}
	w.logger.Info("Watching content directory", logfields.Path(root), slog.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping content watcher")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	rel, ok := w.relative(ev.Name)
	if !ok {
		return
	}
	w.logger.Debug("File change detected", logfields.Path(rel), slog.String("op", ev.Op.String()))

	switch {
	case ev.Has(fsnotify.Create):
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if w.discovery.SkipsDir(ev.Name) {
				return
			}
			_ = w.addDirsRecursive(fsw, ev.Name)
			w.schedule(ctx, "", 0, true)
			return
		}
		if w.discovery.Matches(rel) {
			w.schedule(ctx, rel, changeWrite, false)
		}
	case ev.Has(fsnotify.Write):
		if w.discovery.Matches(rel) {
			w.schedule(ctx, rel, changeWrite, false)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if w.discovery.Matches(rel) {
			w.schedule(ctx, rel, changeRemove, false)
			return
		}
		// a directory or a file we cannot classify any more
		if filepath.Ext(rel) == "" {
			w.schedule(ctx, "", 0, true)
		}
	}
}

// relative maps an event path onto a slash-separated path below the root,
// dropping paths inside skipped directories.
func (w *Watcher) relative(name string) (string, bool) {
	root := w.discovery.Root()
	rel, err := filepath.Rel(root, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	for dir := filepath.Dir(name); dir != root && dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if w.discovery.SkipsDir(dir) {
			return "", false
		}
	}
	return filepath.ToSlash(rel), true
}

// schedule records a change and (re)arms the debounce timer.
func (w *Watcher) schedule(ctx context.Context, rel string, c change, full bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if full {
		w.pending.full = true
	} else {
		if w.pending.files == nil {
			w.pending.files = make(map[string]change)
		}
		w.pending.files[rel] = c
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if w.closed || w.pending.empty() {
		w.mu.Unlock()
		return
	}
	b := w.pending
	w.pending = batch{}
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	w.process(ctx, b)
}

func (w *Watcher) process(ctx context.Context, b batch) {
	if b.full {
		report, err := w.runner.Run(ctx, pipeline.TriggerWatch)
		if err != nil {
			w.logger.Error("Watch-triggered run failed", logfields.Error(err))
			return
		}
		w.logger.Info("Watch-triggered run finished",
			logfields.RunID(report.RunID),
			logfields.Documents(report.Documents),
			slog.Int("optimized", report.Optimized))
		return
	}

	paths := make([]string, 0, len(b.files))
	for p := range b.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, rel := range paths {
		if ctx.Err() != nil {
			return
		}
		var err error
		switch b.files[rel] {
		case changeRemove:
			err = w.runner.RemoveFile(ctx, rel)
		default:
			var entry *pipeline.IndexEntry
			entry, err = w.runner.RunFile(ctx, rel)
			if err == nil && entry != nil {
				w.logger.Info("Document re-optimized", logfields.Path(rel), logfields.Tokens(entry.Tokens))
			}
		}
		if err != nil {
			w.logger.Error("Failed to update document", logfields.Path(rel), logfields.Error(err))
		}
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) error {
	if err := fsw.Add(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == root {
			return nil
		}
		if w.discovery.SkipsDir(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("watch add failed", slog.String("dir", path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden, editor temp and lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db" || base == "4913"
}
