package model

import (
	"time"

	"github.com/viant/mdbatch/internal/clock"
)

// Status represents the lifecycle state of a conversion job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Result holds the outcome payload of a successful conversion.
type Result struct {
	OutputPath string        `json:"outputPath"`
	Pages      int           `json:"pages"`
	Images     int           `json:"images"`
	Duration   time.Duration `json:"duration"`
}

// Job represents a single document conversion unit of work. A job is created
// Pending, mutated only by the scheduler control loop that owns it, and is
// terminal once Succeeded or Failed; the only re-entry is an explicit requeue
// which increments Attempts and resets the status to Pending.
type Job struct {
	ID          string     `json:"id"`
	SourcePath  string     `json:"sourcePath"`
	OutputDir   string     `json:"outputDir"`
	Status      Status     `json:"status"`
	Attempts    int        `json:"attempts"`
	Error       string     `json:"error,omitempty"`
	Result      *Result    `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewJob creates a pending job keyed by its source path.
func NewJob(sourcePath, outputDir string) *Job {
	return &Job{
		ID:         sourcePath,
		SourcePath: sourcePath,
		OutputDir:  outputDir,
		Status:     StatusPending,
		Attempts:   1,
		CreatedAt:  clock.Now(),
	}
}

// Start marks the job as running.
func (j *Job) Start() {
	now := clock.Now()
	j.StartedAt = &now
	j.Status = StatusRunning
}

// Complete marks the job as succeeded with its result payload.
func (j *Job) Complete(result *Result) {
	now := clock.Now()
	j.CompletedAt = &now
	j.Result = result
	j.Error = ""
	j.Status = StatusSucceeded
}

// Fail marks the job as failed, recording the error text.
func (j *Job) Fail(err error) {
	now := clock.Now()
	j.CompletedAt = &now
	if err != nil {
		j.Error = err.Error()
	}
	j.Status = StatusFailed
}

// Reset returns a failed job to Pending for one more attempt.
func (j *Job) Reset() {
	j.Status = StatusPending
	j.Attempts++
	j.StartedAt = nil
	j.CompletedAt = nil
	j.Error = ""
}

// Duration returns elapsed wall time for a started job, zero otherwise.
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}
