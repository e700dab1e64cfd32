package state

import "time"

// Document is the stored state of one optimized document.
type Document struct {
	Path              string // slash-separated path relative to the content root
	SourceFingerprint string
	OutputFingerprint string
	Title             string
	Package           string
	Scope             string
	Complexity        string
	Tokens            int
	FrontmatterStatus string
	RunID             string
	UpdatedAt         time.Time
}

// RunStatus is the outcome of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCanceled  RunStatus = "canceled"
)

// Run records one pipeline run.
type Run struct {
	ID          string
	Status      RunStatus
	TriggeredBy string
	Revision    string // content commit the run read, empty outside git
	StartTime   time.Time
	EndTime     time.Time // zero while running
	Documents   int
	Optimized   int
	Skipped     int
	Failed      int
	Tokens      int
}

// Duration returns the run duration, zero while running.
func (r Run) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Totals aggregates the stored documents.
type Totals struct {
	Documents   int
	Tokens      int
	Malformed   int
	Absent      int
	LastUpdated time.Time
}
