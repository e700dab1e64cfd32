package metrics

import "time"

// RunOutcome enumerates pipeline run outcomes for counters.
type RunOutcome string

const (
	RunSuccess  RunOutcome = "success"
	RunPartial  RunOutcome = "partial" // some documents failed
	RunFailed   RunOutcome = "failed"
	RunCanceled RunOutcome = "canceled"
)

// Recorder defines the observability hooks used by the optimizer, pipeline and server.
type Recorder interface {
	IncDocument(frontmatterStatus string)
	ObserveTokens(n int)
	ObserveOptimizeDuration(d time.Duration)
	IncSkipped()
	IncRunOutcome(outcome RunOutcome)
	ObserveRunDuration(d time.Duration)
	IncHTTPRequest(route string, code int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDocument(string)                    {}
func (NoopRecorder) ObserveTokens(int)                     {}
func (NoopRecorder) ObserveOptimizeDuration(time.Duration) {}
func (NoopRecorder) IncSkipped()                           {}
func (NoopRecorder) IncRunOutcome(RunOutcome)              {}
func (NoopRecorder) ObserveRunDuration(time.Duration)      {}
func (NoopRecorder) IncHTTPRequest(string, int)            {}
