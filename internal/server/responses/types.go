// Package responses defines JSON response types used by llmdocs HTTP handlers.
package responses

import (
	"encoding/json"
	"time"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// StatsResponse summarizes stored optimization state.
type StatsResponse struct {
	Documents   int          `json:"documents"`
	Tokens      int          `json:"tokens"`
	Malformed   int          `json:"malformed_frontmatter"`
	Absent      int          `json:"absent_frontmatter"`
	LastUpdated *time.Time   `json:"last_updated,omitempty"`
	LastRun     *RunResponse `json:"last_run,omitempty"`
}

// RunResponse describes a pipeline run.
type RunResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	TriggeredBy string    `json:"triggered_by"`
	Revision    string    `json:"revision,omitempty"`
	StartTime   time.Time `json:"start_time"`
	DurationMS  int64     `json:"duration_ms"`
	Documents   int       `json:"documents"`
	Optimized   int       `json:"optimized"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	Tokens      int       `json:"tokens"`
}

// FrontmatterResponse reports the parsed frontmatter of one document.
type FrontmatterResponse struct {
	Path          string          `json:"path"`
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
	Fields        json.RawMessage `json:"fields"`
	TokenEstimate int             `json:"token_estimate"`
}
