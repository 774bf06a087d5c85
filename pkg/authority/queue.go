package authority

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobID identifies a queued harvest
type JobID string

// JobState is the lifecycle state of a queued harvest
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// Done reports whether the state is final
func (s JobState) Done() bool {
	return s == JobSucceeded || s == JobFailed || s == JobCancelled
}

// JobStatus is a snapshot of a queued harvest
type JobStatus struct {
	ID         JobID
	Authority  string
	State      JobState
	Result     *HarvestResult
	Err        error
	QueuedAt   time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// DefaultJobHistory is the number of finished jobs a Queue remembers
const DefaultJobHistory = 100

// HarvestFunc runs one harvest. It must honor ctx cancellation.
type HarvestFunc func(ctx context.Context) (*HarvestResult, error)

// Queue runs harvests in the background. Jobs for the same authority name run
// one at a time; jobs for different names run concurrently.
type Queue struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu       sync.Mutex
	jobs     map[JobID]*job
	names    map[string]*nameLock
	finished []JobID
	history  int
	wg       sync.WaitGroup
}

type job struct {
	status JobStatus
	cancel context.CancelFunc
	done   chan struct{}
}

type nameLock struct {
	sem  chan struct{}
	refs int
}

// NewQueue creates an empty Queue. A nil logger uses slog.Default().
func NewQueue(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		jobs:    make(map[JobID]*job),
		names:   make(map[string]*nameLock),
		history: DefaultJobHistory,
	}
}

// Submit schedules fn as a harvest of authority name and returns its id
func (q *Queue) Submit(name string, fn HarvestFunc) JobID {
	id := JobID(uuid.NewString())
	ctx, cancel := context.WithCancel(q.ctx)
	j := &job{
		status: JobStatus{ID: id, Authority: name, State: JobPending, QueuedAt: time.Now()},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	q.mu.Lock()
	q.jobs[id] = j
	lock := q.acquireName(name)
	q.mu.Unlock()

	q.wg.Add(1)
	go q.run(ctx, j, lock, fn)
	return id
}

func (q *Queue) run(ctx context.Context, j *job, lock *nameLock, fn HarvestFunc) {
	defer q.wg.Done()
	defer close(j.done)
	defer j.cancel()
	defer q.releaseName(j.status.Authority)

	select {
	case lock.sem <- struct{}{}:
		defer func() { <-lock.sem }()
	case <-ctx.Done():
		q.finish(j, nil, ctx.Err())
		return
	}

	if err := ctx.Err(); err != nil {
		q.finish(j, nil, err)
		return
	}

	q.mu.Lock()
	j.status.State = JobRunning
	j.status.StartedAt = time.Now()
	q.mu.Unlock()

	q.logger.Info("Harvest job started", "job", j.status.ID, "authority", j.status.Authority)
	result, err := fn(ctx)
	q.finish(j, result, err)
}

func (q *Queue) finish(j *job, result *HarvestResult, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	j.status.Result = result
	j.status.Err = err
	j.status.FinishedAt = time.Now()
	switch {
	case err == nil:
		j.status.State = JobSucceeded
	case errors.Is(err, context.Canceled):
		j.status.State = JobCancelled
	default:
		j.status.State = JobFailed
	}
	q.logger.Info("Harvest job finished", "job", j.status.ID, "authority", j.status.Authority,
		"state", string(j.status.State), "error", err)

	// Oldest finished jobs are forgotten once the history is full
	q.finished = append(q.finished, j.status.ID)
	for len(q.finished) > q.history {
		delete(q.jobs, q.finished[0])
		q.finished = q.finished[1:]
	}
}

// acquireName must be called with q.mu held
func (q *Queue) acquireName(name string) *nameLock {
	lock, ok := q.names[name]
	if !ok {
		lock = &nameLock{sem: make(chan struct{}, 1)}
		q.names[name] = lock
	}
	lock.refs++
	return lock
}

func (q *Queue) releaseName(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	lock, ok := q.names[name]
	if !ok {
		return
	}
	lock.refs--
	if lock.refs == 0 {
		delete(q.names, name)
	}
}

// Cancel cancels a pending or running job. It reports whether the job exists.
func (q *Queue) Cancel(id JobID) bool {
	q.mu.Lock()
	j, ok := q.jobs[id]
	q.mu.Unlock()
	if !ok {
		return false
	}
	j.cancel()
	return true
}

// Status returns a snapshot of a job
func (q *Queue) Status(id JobID) (JobStatus, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return JobStatus{}, false
	}
	return j.status, true
}

// Jobs returns a snapshot of every job, in no particular order
func (q *Queue) Jobs() []JobStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]JobStatus, 0, len(q.jobs))
	for _, j := range q.jobs {
		out = append(out, j.status)
	}
	return out
}

// Wait blocks until the job finishes or ctx is done
func (q *Queue) Wait(ctx context.Context, id JobID) (JobStatus, error) {
	q.mu.Lock()
	j, ok := q.jobs[id]
	q.mu.Unlock()
	if !ok {
		return JobStatus{}, errors.New("unknown harvest job " + string(id))
	}

	select {
	case <-j.done:
		q.mu.Lock()
		defer q.mu.Unlock()
		return j.status, nil
	case <-ctx.Done():
		return JobStatus{}, ctx.Err()
	}
}

// Shutdown cancels every job and waits for them to return
func (q *Queue) Shutdown() {
	q.cancel()
	q.wg.Wait()
}
