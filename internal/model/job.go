package model

import "time"

// JobStatus tracks a job through its lifecycle. The set is open: a worker may
// report intermediate labels of its own, but these four are the ones consumers
// key off.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobRecord is one unit of video-production work as persisted in the state
// store. The record is created once by the dispatcher and afterwards mutated
// only by the worker process that owns it.
type JobRecord struct {
	ID        string           `json:"id"`
	Status    JobStatus        `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt *time.Time       `json:"updatedAt,omitempty"`
	Request   *GenerateRequest `json:"request,omitempty"`
	Logs      []string         `json:"logs"`
	Result    map[string]any   `json:"result,omitempty"`
	Error     *string          `json:"error,omitempty"`
}
