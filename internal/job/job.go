// Package job tracks renders that run off the caller's goroutine. A Job
// moves through a small state machine while RenderService loads, edits,
// saves and exports one input file.
package job

import (
	"errors"
	"sync"
	"time"

	"github.com/maauso/recut/internal/edit"
	"github.com/maauso/recut/internal/job/id"
)

// Status represents the current state of a Job.
type Status string

const (
	// StatusQueued indicates the job is waiting for a render slot.
	StatusQueued Status = "QUEUED"
	// StatusRunning indicates the render is in progress.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates the output and all exports were written.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the render or an export failed.
	StatusFailed Status = "FAILED"
	// StatusCancelled indicates the job was cancelled before it started.
	StatusCancelled Status = "CANCELLED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed. A running
// render cannot be cancelled; it finishes or fails.
var validTransitions = map[Status][]Status{
	StatusQueued:    {StatusRunning, StatusCancelled},
	StatusRunning:   {StatusCompleted, StatusFailed},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusCancelled: {},
}

func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Job is one render of InputPath to OutputPath.
type Job struct {
	mu sync.RWMutex

	// ID is the unique identifier for this job.
	ID string
	// Status is the current job state.
	Status Status
	// InputPath is the audio file being edited.
	InputPath string
	// OutputPath is where the edited audio is written.
	OutputPath string
	// ExportPaths lists the report files requested for this job.
	ExportPaths []string
	// Progress is the percentage of completion (0-100).
	Progress int
	// Error contains the failure message if the job failed.
	Error string
	// Report is set once the render completes.
	Report *edit.EditReport
	// CreatedAt is when the job was created.
	CreatedAt time.Time
	// UpdatedAt is when the job was last updated.
	UpdatedAt time.Time
	// StartedAt is when the render started.
	StartedAt time.Time
	// CompletedAt is when the job reached a terminal state.
	CompletedAt time.Time
}

// New creates a queued Job with a generated ID.
func New(inputPath, outputPath string) *Job {
	return NewWithID(id.Generate(), inputPath, outputPath)
}

// NewWithID creates a queued Job with the specified ID.
func NewWithID(jobID, inputPath, outputPath string) *Job {
	now := time.Now()
	return &Job{
		ID:          jobID,
		Status:      StatusQueued,
		InputPath:   inputPath,
		OutputPath:  outputPath,
		ExportPaths: make([]string, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransitionTo attempts to change the job status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (j *Job) TransitionTo(status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transitionLocked(status)
}

func (j *Job) transitionLocked(status Status) error {
	if !canTransition(j.Status, status) {
		return ErrInvalidTransition
	}

	j.Status = status
	j.UpdatedAt = time.Now()

	switch status {
	case StatusRunning:
		j.StartedAt = j.UpdatedAt
	case StatusCompleted, StatusFailed, StatusCancelled:
		j.CompletedAt = j.UpdatedAt
	}
	return nil
}

// Start transitions the job from QUEUED to RUNNING.
func (j *Job) Start() error {
	return j.TransitionTo(StatusRunning)
}

// Complete stores the report, sets progress to 100 and transitions to
// COMPLETED.
func (j *Job) Complete(report *edit.EditReport) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transitionLocked(StatusCompleted); err != nil {
		return err
	}
	j.Report = report
	j.Progress = 100
	return nil
}

// Fail transitions the job to FAILED state with an error message.
func (j *Job) Fail(errMsg string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transitionLocked(StatusFailed); err != nil {
		return err
	}
	j.Error = errMsg
	return nil
}

// Cancel transitions a queued job to CANCELLED.
func (j *Job) Cancel() error {
	return j.TransitionTo(StatusCancelled)
}

// GetStatus returns the current job status (thread-safe).
func (j *Job) GetStatus() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// SetExportPaths records the report files requested for this job.
func (j *Job) SetExportPaths(paths []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ExportPaths = append([]string(nil), paths...)
	j.UpdatedAt = time.Now()
}

// UpdateProgress sets the progress percentage (0-100).
func (j *Job) UpdateProgress(progress int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress = min(max(progress, 0), 100)
	j.UpdatedAt = time.Now()
}

// IsTerminal returns true if the job is in a terminal state.
func (j *Job) IsTerminal() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(validTransitions[j.Status]) == 0
}

// Clone creates a deep copy of the job for safe reads.
func (j *Job) Clone() *Job {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var report *edit.EditReport
	if j.Report != nil {
		r := *j.Report
		r.Edits = append([]edit.AppliedEdit(nil), j.Report.Edits...)
		report = &r
	}

	return &Job{
		ID:          j.ID,
		Status:      j.Status,
		InputPath:   j.InputPath,
		OutputPath:  j.OutputPath,
		ExportPaths: append([]string(nil), j.ExportPaths...),
		Progress:    j.Progress,
		Error:       j.Error,
		Report:      report,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}
