package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	documents        *prom.CounterVec
	tokens           prom.Histogram
	optimizeDuration prom.Histogram
	skipped          prom.Counter
	runOutcomes      *prom.CounterVec
	runDuration      prom.Histogram
	httpRequests     *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "llmdocs",
			Name:      "documents_optimized_total",
			Help:      "Documents optimized, by frontmatter status",
		}, []string{"frontmatter"}),
		tokens: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "llmdocs",
			Name:      "document_tokens",
			Help:      "Estimated tokens per optimized document",
			Buckets:   prom.ExponentialBuckets(64, 2, 10),
		}),
		optimizeDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "llmdocs",
			Name:      "optimize_duration_seconds",
			Help:      "Time spent optimizing a single document",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		skipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "llmdocs",
			Name:      "documents_skipped_total",
			Help:      "Documents skipped because their fingerprint did not change",
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "llmdocs",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome",
		}, []string{"outcome"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "llmdocs",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "llmdocs",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(pr.documents, pr.tokens, pr.optimizeDuration, pr.skipped, pr.runOutcomes, pr.runDuration, pr.httpRequests)
	return pr
}

func (p *PrometheusRecorder) IncDocument(frontmatterStatus string) {
	p.documents.WithLabelValues(frontmatterStatus).Inc()
}

func (p *PrometheusRecorder) ObserveTokens(n int) {
	p.tokens.Observe(float64(n))
}

func (p *PrometheusRecorder) ObserveOptimizeDuration(d time.Duration) {
	p.optimizeDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSkipped() {
	p.skipped.Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncHTTPRequest(route string, code int) {
	p.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
