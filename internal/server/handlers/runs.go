package handlers

import (
	"context"
	"log/slog"
	"net/http"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
	"git.home.luguber.info/inful/llmdocs/internal/server/responses"
)

// TriggerRun is the pipeline entry point used by the run handler.
type TriggerRun interface {
	Run(ctx context.Context, trigger string) (*pipeline.Report, error)
}

// TriggerHTTP is recorded as the trigger of runs started over HTTP.
const TriggerHTTP = "http"

// RunHandlers triggers pipeline runs.
type RunHandlers struct {
	runner       TriggerRun
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewRunHandlers creates run handlers.
func NewRunHandlers(runner TriggerRun, logger *slog.Logger) *RunHandlers {
	return &RunHandlers{runner: runner, errorAdapter: derrors.NewHTTPErrorAdapter(logger)}
}

// HandleTriggerRun runs the pipeline synchronously and reports the result.
func (h *RunHandlers) HandleTriggerRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.Run(r.Context(), TriggerHTTP)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	status := http.StatusOK
	if len(report.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	_ = writeJSON(w, status, responses.RunResponse{
		ID:          report.RunID,
		Status:      string(report.Outcome),
		TriggeredBy: report.Trigger,
		Revision:    report.Revision,
		StartTime:   report.Start.UTC(),
		DurationMS:  report.Duration.Milliseconds(),
		Documents:   report.Documents,
		Optimized:   report.Optimized,
		Skipped:     report.Skipped,
		Failed:      len(report.Failed),
		Tokens:      report.Tokens,
	})
}
