package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/server/responses"
	"git.home.luguber.info/inful/llmdocs/internal/state"
	"git.home.luguber.info/inful/llmdocs/internal/version"
)

// StatsSource provides aggregated optimization state.
type StatsSource interface {
	Totals(ctx context.Context) (state.Totals, error)
	LastRun(ctx context.Context) (state.Run, bool, error)
}

// MonitoringHandlers contains health and stats handlers.
type MonitoringHandlers struct {
	startTime    time.Time
	stats        StatsSource
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates monitoring handlers. stats may be nil.
func NewMonitoringHandlers(stats StatsSource, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    time.Now(),
		stats:        stats,
		errorAdapter: derrors.NewHTTPErrorAdapter(logger),
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Resolved(),
		Uptime:    time.Since(h.startTime).Seconds(),
	})
}

// HandleStats reports stored document totals and the last run.
func (h *MonitoringHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		h.errorAdapter.WriteErrorResponse(w, r, derrors.RuntimeError("state store not configured").Warning().Build())
		return
	}
	totals, err := h.stats.Totals(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	resp := responses.StatsResponse{
		Documents: totals.Documents,
		Tokens:    totals.Tokens,
		Malformed: totals.Malformed,
		Absent:    totals.Absent,
	}
	if !totals.LastUpdated.IsZero() {
		t := totals.LastUpdated.UTC()
		resp.LastUpdated = &t
	}
	run, ok, err := h.stats.LastRun(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if ok {
		rr := RunResponseFrom(run)
		resp.LastRun = &rr
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

// RunResponseFrom converts a stored run.
func RunResponseFrom(run state.Run) responses.RunResponse {
	return responses.RunResponse{
		ID:          run.ID,
		Status:      string(run.Status),
		TriggeredBy: run.TriggeredBy,
		Revision:    run.Revision,
		StartTime:   run.StartTime.UTC(),
		DurationMS:  run.Duration().Milliseconds(),
		Documents:   run.Documents,
		Optimized:   run.Optimized,
		Skipped:     run.Skipped,
		Failed:      run.Failed,
		Tokens:      run.Tokens,
	}
}
