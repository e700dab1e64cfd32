package pipeline

import (
	"fmt"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
)

// FileError records a document that failed to process.
type FileError struct {
	Path string
	Err  error
}

// Report summarizes a pipeline run.
type Report struct {
	RunID     string
	Trigger   string
	Revision  string // content commit, empty outside git
	Start     time.Time
	Duration  time.Duration
	Documents int
	Optimized int
	Skipped   int
	Removed   int
	Tokens    int
	Failed    []FileError
	Outcome   metrics.RunOutcome
	IndexPath string
}

// Err returns a classified runtime error when documents failed, nil otherwise.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	paths := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		paths = append(paths, f.Path)
	}
	b := derrors.NewError(derrors.CategoryRuntime, fmt.Sprintf("%d of %d documents failed", len(r.Failed), r.Documents)).
		WithContext("run_id", r.RunID).
		WithContext("paths", strings.Join(paths, ", ")).
		WithCause(r.Failed[0].Err)
	return b.Build()
}

func (r *Report) finish(runErr error, canceled bool) {
	r.Duration = time.Since(r.Start)
	switch {
	case canceled:
		r.Outcome = metrics.RunCanceled
	case runErr != nil:
		r.Outcome = metrics.RunFailed
	case len(r.Failed) > 0 && r.Optimized+r.Skipped == 0:
		r.Outcome = metrics.RunFailed
	case len(r.Failed) > 0:
		r.Outcome = metrics.RunPartial
	default:
		r.Outcome = metrics.RunSuccess
	}
}
