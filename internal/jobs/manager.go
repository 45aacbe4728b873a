package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/koompi/file-manager/internal/logging"
)

const defaultHistoryMax = 100

// Manager coordinates queueing and background processing (single worker).
type Manager struct {
	mu          sync.Mutex
	cond        *sync.Cond
	queue       []*Job
	closed      bool
	nextID      int64
	subscribers []func()
	current     *Job
	history     []*Job
	historyMax  int
	log         *zap.Logger
	stopped     chan struct{}
}

// NewManager constructs and starts a Manager.
func NewManager() *Manager {
	m := &Manager{
		historyMax: defaultHistoryMax,
		log:        logging.Named("jobs"),
		stopped:    make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	go m.worker()
	m.log.Debug("manager created; worker started")
	return m
}

// Subscribe registers a callback called on state changes. Callbacks run
// on the worker goroutine.
func (m *Manager) Subscribe(cb func()) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, cb)
	m.mu.Unlock()
}

func (m *Manager) notify() {
	// call without holding the lock to avoid re-entrancy
	m.mu.Lock()
	subs := append([]func(){}, m.subscribers...)
	m.mu.Unlock()
	for _, cb := range subs {
		cb()
	}
}

// EnqueueCopy enqueues a copy job.
func (m *Manager) EnqueueCopy(sources []string, destDir string) *Job {
	return m.enqueue(TypeCopy, sources, destDir)
}

// EnqueueMove enqueues a move job.
func (m *Manager) EnqueueMove(sources []string, destDir string) *Job {
	return m.enqueue(TypeMove, sources, destDir)
}

func (m *Manager) enqueue(t Type, sources []string, destDir string) *Job {
	m.mu.Lock()
	m.nextID++
	j := newJob(m.nextID, t, sources, destDir)
	if m.closed {
		m.mu.Unlock()
		j.finish(StatusCanceled, context.Canceled)
		return j
	}
	m.queue = append(m.queue, j)
	m.mu.Unlock()

	m.log.Debug("enqueue",
		zap.Int64("id", j.ID), zap.String("type", string(t)),
		zap.Int("items", len(sources)), zap.String("dest", destDir))
	m.notify()
	m.cond.Signal()
	return j
}

// Cancel cancels a job by ID.
func (m *Manager) Cancel(id int64) bool {
	m.mu.Lock()
	for i, j := range m.queue {
		if j.ID == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			m.addHistoryLocked(j)
			m.mu.Unlock()
			j.finish(StatusCanceled, context.Canceled)
			m.log.Debug("cancel pending", zap.Int64("id", id))
			m.notify()
			return true
		}
	}
	if m.current != nil && m.current.ID == id {
		m.current.Cancel()
		m.mu.Unlock()
		m.log.Debug("cancel running", zap.Int64("id", id))
		return true
	}
	m.mu.Unlock()
	return false
}

// List returns snapshots of the running job, then pending jobs, then
// finished jobs newest first.
func (m *Manager) List() []JobSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]JobSnapshot, 0, len(m.queue)+1+len(m.history))
	if m.current != nil {
		out = append(out, m.current.Snapshot())
	}
	for _, j := range m.queue {
		out = append(out, j.Snapshot())
	}
	for i := len(m.history) - 1; i >= 0; i-- {
		out = append(out, m.history[i].Snapshot())
	}
	return out
}

// Close cancels pending and running jobs and stops the worker.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		<-m.stopped
		return
	}
	m.closed = true
	pending := m.queue
	m.queue = nil
	if m.current != nil {
		m.current.Cancel()
	}
	m.mu.Unlock()

	for _, j := range pending {
		j.finish(StatusCanceled, context.Canceled)
	}
	m.cond.Broadcast()
	<-m.stopped
}

func (m *Manager) worker() {
	defer close(m.stopped)
	for {
		m.mu.Lock()
		for len(m.queue) == 0 && !m.closed {
			m.cond.Wait()
		}
		if m.closed {
			m.mu.Unlock()
			return
		}
		j := m.queue[0]
		m.queue = m.queue[1:]
		m.current = j
		m.mu.Unlock()

		j.mu.Lock()
		j.Status = StatusRunning
		j.StartedAt = time.Now()
		j.mu.Unlock()
		m.log.Debug("start job", zap.Int64("id", j.ID))
		m.notify()

		err := m.runJob(j)
		switch {
		case err == nil:
			j.finish(StatusCompleted, nil)
			m.log.Info("job completed", zap.Int64("id", j.ID), zap.Int("items", j.TotalItems))
		case errors.Is(err, context.Canceled):
			j.finish(StatusCanceled, err)
			m.log.Info("job canceled", zap.Int64("id", j.ID))
		default:
			j.finish(StatusFailed, err)
			m.log.Warn("job failed", zap.Int64("id", j.ID), zap.Error(err))
		}

		m.mu.Lock()
		m.current = nil
		m.addHistoryLocked(j)
		m.mu.Unlock()
		m.notify()
	}
}

// addHistoryLocked appends a finished job to history and trims oldest; caller must hold m.mu
func (m *Manager) addHistoryLocked(j *Job) {
	m.history = append(m.history, j)
	if m.historyMax > 0 && len(m.history) > m.historyMax {
		drop := len(m.history) - m.historyMax
		m.history = append([]*Job{}, m.history[drop:]...)
	}
}

// runJob processes one job, stopping at the first failing item.
func (m *Manager) runJob(j *Job) error {
	for i, src := range j.Sources {
		if err := j.ctx.Err(); err != nil {
			return err
		}
		j.mu.Lock()
		j.CurrentSource = src
		j.mu.Unlock()
		m.notify()

		var dst string
		var err error
		if j.Type == TypeMove {
			dst, err = MoveItem(j.ctx, src, j.DestDir)
		} else {
			dst, err = CopyItem(j.ctx, src, j.DestDir)
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				j.mu.Lock()
				j.Failures = append(j.Failures, JobFailure{TopSource: src, Path: failingPath(err), Error: err.Error()})
				j.mu.Unlock()
			}
			return err
		}

		j.mu.Lock()
		j.DoneItems = i + 1
		j.Results = append(j.Results, dst)
		j.mu.Unlock()
		m.notify()
	}
	return nil
}
