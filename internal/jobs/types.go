// Package jobs implements the file operations behind the session's
// clipboard, rename, and delete actions, plus a serial queue that runs
// copy and move jobs off the event loop.
package jobs

import (
	"context"
	"sync"
	"time"
)

// Type represents job type.
type Type string

const (
	TypeCopy Type = "copy"
	TypeMove Type = "move"
)

// Status represents job status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Finished reports whether the status is terminal.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCanceled
}

// Job holds a single copy/move job.
type Job struct {
	// immutable fields
	ID      int64
	Type    Type
	Sources []string
	DestDir string

	// state
	mu            sync.RWMutex
	Status        Status
	TotalItems    int
	DoneItems     int
	CurrentSource string
	Results       []string // destination paths of finished items
	Failures      []JobFailure
	EnqueuedAt    time.Time
	StartedAt     time.Time
	CompletedAt   time.Time
	err           error

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newJob(id int64, t Type, sources []string, destDir string) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	return &Job{
		ID:         id,
		Type:       t,
		Sources:    append([]string(nil), sources...),
		DestDir:    destDir,
		Status:     StatusPending,
		TotalItems: len(sources),
		EnqueuedAt: time.Now(),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Cancel requests cancellation. A running job stops at the next item or
// buffer boundary.
func (j *Job) Cancel() {
	if j.cancel != nil {
		j.cancel()
	}
}

// Done is closed once the job reaches a terminal status.
func (j *Job) Done() <-chan struct{} { return j.done }

// Err returns the error that ended the job, or nil.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// Wait blocks until the job finishes or ctx is done.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) finish(status Status, err error) {
	j.mu.Lock()
	j.Status = status
	j.err = err
	j.CompletedAt = time.Now()
	j.mu.Unlock()
	j.cancel()
	close(j.done)
}

// Snapshot returns a copy of important fields for display.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	s := JobSnapshot{
		ID:            j.ID,
		Type:          j.Type,
		Status:        j.Status,
		TotalItems:    j.TotalItems,
		DoneItems:     j.DoneItems,
		CurrentSource: j.CurrentSource,
		DestDir:       j.DestDir,
		EnqueuedAt:    j.EnqueuedAt,
		StartedAt:     j.StartedAt,
		CompletedAt:   j.CompletedAt,
		Sources:       append([]string(nil), j.Sources...),
		Results:       append([]string(nil), j.Results...),
		Failures:      append([]JobFailure(nil), j.Failures...),
	}
	if j.err != nil {
		s.Error = j.err.Error()
	}
	return s
}

// JobSnapshot is a read-only view of a job.
type JobSnapshot struct {
	ID            int64
	Type          Type
	Status        Status
	Sources       []string
	DestDir       string
	TotalItems    int
	DoneItems     int
	CurrentSource string
	Results       []string
	Error         string
	Failures      []JobFailure
	EnqueuedAt    time.Time
	StartedAt     time.Time
	CompletedAt   time.Time
}

// JobFailure records a single failing path and error message.
type JobFailure struct {
	TopSource string // top-level source item being processed when failure occurred
	Path      string // specific path that failed (may be a child inside a directory)
	Error     string
}
