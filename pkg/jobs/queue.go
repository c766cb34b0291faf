package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNotRunning is returned by Enqueue before Start or after Stop.
var ErrNotRunning = errors.New("queue not running")

// Job is a unit of background work.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job. A non-nil error schedules a retry.
type Handler func(context.Context, Job) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
	// OnDrop is invoked once a job has exhausted its retries.
	OnDrop func(Job, error)
}

// Queue is an in-memory dispatcher with a fixed worker pool and linear
// retry delay. Stop drains the buffer before returning; jobs waiting on a
// retry delay at that point are handed to OnDrop.
type Queue struct {
	name    string
	handler Handler
	cfg     QueueConfig
	logger  *zap.SugaredLogger

	jobs chan Job

	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	quit    chan struct{}
	done    chan struct{}
	running bool
	wg      sync.WaitGroup
}

// NewQueue builds a queue; call Start before enqueueing.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:    name,
		handler: handler,
		cfg:     cfg,
		logger:  cfg.Logger.Sugar().With("queue", name),
		jobs:    make(chan Job, cfg.BufferSize),
	}
}

// Start launches the workers. Cancelling ctx has the same effect as Stop.
// Handlers receive a context that outlives ctx until the buffer is drained.
// Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.ctx, q.cancel = context.WithCancel(context.WithoutCancel(ctx))
	q.quit = make(chan struct{})
	q.done = make(chan struct{})
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	q.running = true

	quit := q.quit
	go func() {
		select {
		case <-ctx.Done():
			q.Stop()
		case <-quit:
		}
	}()
	q.logger.Infow("queue started", "workers", q.cfg.Workers)
}

// Stop rejects new jobs, lets the workers finish everything already
// buffered and waits for them to return. Concurrent callers all wait for
// the same drain.
func (q *Queue) Stop() {
	q.mu.Lock()
	done := q.done
	if !q.running {
		q.mu.Unlock()
		if done != nil {
			<-done
		}
		return
	}
	q.running = false
	close(q.quit)
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
	close(done)
	q.logger.Infow("queue stopped")
}

// Running reports whether the queue accepts jobs.
func (q *Queue) Running() bool {
	if q == nil {
		return false
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.running
}

// Enqueue hands a job to the pool. It blocks while the buffer is full.
func (q *Queue) Enqueue(job Job) error {
	// The read lock is held across the send so Stop cannot start draining
	// while a job is on its way into the buffer.
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.running {
		return fmt.Errorf("%s: %w", q.name, ErrNotRunning)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	q.jobs <- job
	return nil
}

func (q *Queue) work() {
	defer q.wg.Done()
	for {
		select {
		case <-q.quit:
			q.drain()
			return
		case job := <-q.jobs:
			q.run(job)
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case job := <-q.jobs:
			q.run(job)
		default:
			return
		}
	}
}

func (q *Queue) run(job Job) {
	if err := q.handler(q.ctx, job); err != nil {
		q.retry(job, err)
	}
}

func (q *Queue) stopping() bool {
	select {
	case <-q.quit:
		return true
	default:
		return false
	}
}

func (q *Queue) retry(job Job, err error) {
	job.Attempt++
	if job.Attempt > q.cfg.MaxRetries {
		q.drop(job, err, "job dropped after retries")
		return
	}
	if q.stopping() {
		q.drop(job, err, "job dropped, queue stopping")
		return
	}
	q.logger.Warnw("job failed, retrying", "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "error", err)

	delay := q.cfg.RetryDelay * time.Duration(job.Attempt)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-q.quit:
			q.drop(job, err, "job dropped, queue stopping")
		case <-timer.C:
			if enqueueErr := q.Enqueue(job); enqueueErr != nil {
				q.drop(job, err, "failed to requeue job")
			}
		}
	}()
}

func (q *Queue) drop(job Job, err error, reason string) {
	q.logger.Errorw(reason, "job_id", job.ID, "type", job.Type, "attempts", job.Attempt, "error", err)
	if q.cfg.OnDrop != nil {
		q.cfg.OnDrop(job, err)
	}
}
