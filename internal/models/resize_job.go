package models

import "time"

type ResizeJob struct {
	ID              string        `json:"id"`
	SourcePath      string        `json:"source_path"`
	DestinationPath string        `json:"destination_path"`
	Size            ResizeSize    `json:"size"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	Result          *ResizeResult `json:"result,omitempty"`
	Error           string        `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ResizeJobFinished is published once a worker is done with a job, whatever
// the outcome.
type ResizeJobFinished struct {
	Event string     `json:"event"`
	Job   *ResizeJob `json:"job"`
}

const EventResizeJobFinished = "resize.job_finished"
