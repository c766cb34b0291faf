package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))
	select {
	case id := <-done:
		assert.Equal(t, "job-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRetriesThenDrops(t *testing.T) {
	var calls int32
	dropped := make(chan Job, 1)
	q := NewQueue("test", func(_ context.Context, _ Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("still failing")
	}, QueueConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		OnDrop:     func(j Job, _ error) { dropped <- j },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))
	select {
	case j := <-dropped:
		assert.Equal(t, 3, j.Attempt)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job was not dropped")
	}
}

func TestEnqueueRequiresRunningQueue(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.False(t, q.Running())
	assert.ErrorIs(t, q.Enqueue(Job{ID: "x"}), ErrNotRunning)

	q.Start(context.Background())
	assert.True(t, q.Running())
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job{ID: "x"}), ErrNotRunning)

	var nilQueue *Queue
	assert.False(t, nilQueue.Running())
}

func TestQueueStopDrainsBufferedJobs(t *testing.T) {
	var processed int32
	release := make(chan struct{})
	q := NewQueue("test", func(_ context.Context, _ Job) error {
		<-release
		atomic.AddInt32(&processed, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8})
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{ID: "job"}))
	}
	stopped := make(chan struct{})
	go func() {
		q.Stop()
		close(stopped)
	}()
	assert.Eventually(t, func() bool { return !q.Running() }, time.Second, time.Millisecond)
	assert.ErrorIs(t, q.Enqueue(Job{ID: "late"}), ErrNotRunning)

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&processed))
}

func TestQueueStopHandsPendingRetriesToOnDrop(t *testing.T) {
	var calls int32
	var dropped []Job
	q := NewQueue("test", func(_ context.Context, _ Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("blob store down")
	}, QueueConfig{
		MaxRetries: 3,
		RetryDelay: time.Hour,
		OnDrop:     func(j Job, _ error) { dropped = append(dropped, j) },
	})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	q.Stop()
	require.Len(t, dropped, 1)
	assert.Equal(t, "job-1", dropped[0].ID)
	assert.Equal(t, 1, dropped[0].Attempt)
}

func TestQueueStopsWhenContextCancelled(t *testing.T) {
	handled := make(chan error, 1)
	release := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, _ Job) error {
		<-release
		handled <- ctx.Err()
		return nil
	}, QueueConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))
	cancel()
	assert.Eventually(t, func() bool { return !q.Running() }, time.Second, time.Millisecond)

	close(release)
	q.Stop()
	select {
	case err := <-handled:
		assert.NoError(t, err)
	default:
		t.Fatal("buffered job was not handled")
	}
}
