package api

import (
	"encoding/json"
	"time"

	"videoai/internal/jobs"
)

// SubmitRequest is the submission payload accepted by the HTTP boundary.
type SubmitRequest struct {
	Kind   string          `json:"kind"`
	UserID string          `json:"userId"`
	Input  json.RawMessage `json:"input"`
}

// SubmitResponse acknowledges an accepted job.
type SubmitResponse struct {
	JobID string `json:"jobId"`
}

// JobView is the JobRecord-shaped payload returned by status reads.
type JobView struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"ownerId"`
	Kind         string       `json:"kind"`
	Status       string       `json:"status"`
	Progress     int          `json:"progress"`
	StageMessage string       `json:"stageMessage,omitempty"`
	Result       *jobs.Result `json:"result,omitempty"`
	Error        string       `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
}

// ViewForJob converts a job record into its wire form.
func ViewForJob(job *jobs.Job) JobView {
	return JobView{
		ID:           job.ID,
		OwnerID:      job.OwnerID,
		Kind:         string(job.Kind),
		Status:       string(job.Status),
		Progress:     job.Progress,
		StageMessage: job.StageMessage,
		Result:       job.Result,
		Error:        job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

// StatusResponse summarizes engine health for the status endpoint.
type StatusResponse struct {
	Jobs        jobs.HealthSummary `json:"jobs"`
	Connections int                `json:"connections"`
}
