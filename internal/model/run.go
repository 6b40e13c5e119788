package model

import "time"

// RunStatus tracks the lifecycle of a pipeline run in the ledger.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one ledger entry for a pipeline invocation. Only operational
// metadata and the summary are persisted, never the result rows.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"` // input path or URL
	ZipCount  int       `json:"zip_count"`
	Status    RunStatus `json:"status"`
	Summary   *Summary  `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
