// Package jobs defines the asynchronous normalization job model and the
// queue abstractions the worker and API build on.
package jobs

import (
	"context"
	"time"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed permanently.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and will run again.
	JobStatusRetrying JobStatus = "retrying"
)

// NormalizeJob asks for one statement file to be normalized.
type NormalizeJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Input is the statement to normalize: a local path or gs:// URI.
	Input string `json:"input"`

	// OutDir is where the normalized CSV is written.
	OutDir string `json:"out_dir"`

	// OutPath is filled in after successful completion.
	OutPath string `json:"out_path,omitempty"`

	// Records is the number of records produced, set on completion.
	Records int `json:"records"`

	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains failure details for failed jobs.
	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Publisher defines the interface for enqueuing normalization jobs.
type Publisher interface {
	// PublishNormalize enqueues a statement normalization job.
	PublishNormalize(ctx context.Context, job *NormalizeJob) error

	// Close releases publisher resources.
	Close() error
}

// JobHandler processes a single job. A returned error marks the job for
// retry until MaxRetries is reached.
type JobHandler func(ctx context.Context, job *NormalizeJob) error

// Consumer defines the interface for consuming normalization jobs.
type Consumer interface {
	// Start begins consuming jobs, calling handler for each one.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs.
	Stop(ctx context.Context) error
}

// JobStore tracks job state so callers can poll for completion.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *NormalizeJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*NormalizeJob, error)

	// ListJobs retrieves jobs matching the filter.
	ListJobs(ctx context.Context, filter JobFilter) ([]*NormalizeJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Status filters jobs by status when non-empty.
	Status JobStatus

	// Limit caps the number of results; 0 means no cap.
	Limit int
}
