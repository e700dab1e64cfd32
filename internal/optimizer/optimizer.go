// Package optimizer reformats Markdown documentation pages for consumption
// by language models.
//
// Optimize extracts the YAML frontmatter, strips presentation markup from the
// body, prepends a short block of HTML comment hints (package, scope,
// complexity) and reports an approximate token count for the result. The
// transformation is synchronous, keeps no state between calls and never
// fails: unreadable frontmatter is logged and treated as absent.
package optimizer

import (
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/llmdocs/internal/frontmatter"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
)

// Fallback hint values used when a document does not set them.
const (
	DefaultPackage    = "unknown"
	DefaultScope      = "general"
	DefaultComplexity = "intermediate"
)

// Frontmatter keys read for the hint block.
const (
	KeyPackage    = "package"
	KeyScope      = "scope"
	KeyComplexity = "complexity"
)

const hintBanner = "<!-- LLM-Optimized Documentation -->"

// Hints holds the values reported in the comment block of an optimized document.
type Hints struct {
	Package    string
	Scope      string
	Complexity string
}

// DefaultHints returns the built-in fallback hints.
func DefaultHints() Hints {
	return Hints{Package: DefaultPackage, Scope: DefaultScope, Complexity: DefaultComplexity}
}

// Result is the outcome of optimizing one document.
type Result struct {
	// Content is the reconstructed document: flattened frontmatter, hint block and cleaned body.
	Content string
	// Metadata is the parsed frontmatter, unmodified. Empty when absent or malformed.
	Metadata          *frontmatter.Map
	TokenEstimate     int
	FrontmatterStatus frontmatter.Status
	Hints             Hints
	Body              string
}

// Optimizer turns raw Markdown into LLM-oriented Markdown.
type Optimizer struct {
	logger   *slog.Logger
	recorder metrics.Recorder
	defaults Hints
	now      func() time.Time
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for frontmatter warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Optimizer) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithDefaults overrides the fallback hints. Empty fields keep the built-in values.
func WithDefaults(h Hints) Option {
	return func(o *Optimizer) {
		if h.Package != "" {
			o.defaults.Package = h.Package
		}
		if h.Scope != "" {
			o.defaults.Scope = h.Scope
		}
		if h.Complexity != "" {
			o.defaults.Complexity = h.Complexity
		}
	}
}

// New creates an Optimizer. Without options it logs through slog.Default and records no metrics.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		defaults: DefaultHints(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Defaults returns the fallback hints in effect.
func (o *Optimizer) Defaults() Hints {
	return o.defaults
}

// ExtractFrontmatter splits and parses the document frontmatter, logging a
// warning when the block is present but malformed.
func (o *Optimizer) ExtractFrontmatter(markdown string) frontmatter.Extraction {
	return o.extract("", markdown)
}

func (o *Optimizer) extract(name, markdown string) frontmatter.Extraction {
	ex := frontmatter.Extract(markdown)
	if ex.Degraded() {
		attrs := []any{logfields.Error(ex.Err)}
		if name != "" {
			attrs = append(attrs, logfields.Path(name))
		}
		o.logger.Warn("Failed to parse frontmatter", attrs...)
	}
	return ex
}

// Optimize reformats raw Markdown for LLM consumption.
func (o *Optimizer) Optimize(raw string) Result {
	return o.OptimizeNamed("", raw)
}

// OptimizeNamed is Optimize with a document name attached to log output.
func (o *Optimizer) OptimizeNamed(name, raw string) Result {
	start := o.now()

	ex := o.extract(name, raw)
	body := StripUIElements(ex.Body)
	hints := o.resolveHints(ex.Fields)

	content := strings.Join([]string{
		"---",
		frontmatter.Flatten(ex.Fields),
		"---",
		"",
		hintBlock(hints),
		body,
	}, "\n")

	res := Result{
		Content:           content,
		Metadata:          ex.Fields,
		TokenEstimate:     EstimateTokens(content),
		FrontmatterStatus: ex.Status,
		Hints:             hints,
		Body:              body,
	}

	o.recorder.IncDocument(ex.Status.String())
	o.recorder.ObserveTokens(res.TokenEstimate)
	o.recorder.ObserveOptimizeDuration(o.now().Sub(start))
	return res
}

func (o *Optimizer) resolveHints(fields *frontmatter.Map) Hints {
	return Hints{
		Package:    hintValue(fields, KeyPackage, o.defaults.Package),
		Scope:      hintValue(fields, KeyScope, o.defaults.Scope),
		Complexity: hintValue(fields, KeyComplexity, o.defaults.Complexity),
	}
}

func hintValue(fields *frontmatter.Map, key, fallback string) string {
	v, ok := fields.Get(key)
	if !ok || !frontmatter.Truthy(v) {
		return fallback
	}
	return frontmatter.Text(v)
}

// hintBlock renders the comment lines followed by an empty line.
func hintBlock(h Hints) string {
	return strings.Join([]string{
		hintBanner,
		"<!-- Package: " + h.Package + " -->",
		"<!-- Scope: " + h.Scope + " -->",
		"<!-- Complexity: " + h.Complexity + " -->",
		"",
	}, "\n")
}
