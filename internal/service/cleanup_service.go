package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-projects-api/pkg/jobs"
)

// JobTypeOrphanFile identifies jobs removing an upload whose owner was never stored.
const JobTypeOrphanFile = "orphan_file"

type fileRemover interface {
	Remove(ctx context.Context, id string) error
}

type jobQueue interface {
	Running() bool
	Enqueue(job jobs.Job) error
}

// CleanupService removes uploads left behind by failed project inserts. It
// hands work to a background queue when one is running and falls back to
// an inline delete otherwise.
type CleanupService struct {
	files   fileRemover
	queue   jobQueue
	timeout time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCleanupService constructs a cleanup service without a queue.
func NewCleanupService(files fileRemover, metrics *MetricsService, logger *zap.Logger) *CleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupService{files: files, timeout: 30 * time.Second, metrics: metrics, logger: logger}
}

// UseQueue routes future cleanups through q.
func (s *CleanupService) UseQueue(q jobQueue) {
	s.queue = q
}

// ScheduleOrphan arranges for the file to be removed. The request context
// is only used for the inline path.
func (s *CleanupService) ScheduleOrphan(ctx context.Context, fileID string) {
	if s == nil || fileID == "" {
		return
	}
	if s.queue != nil && s.queue.Running() {
		err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: JobTypeOrphanFile, Payload: fileID})
		if err == nil {
			s.metrics.RecordCleanup("queued")
			return
		}
		if !errors.Is(err, jobs.ErrNotRunning) {
			s.logger.Warn("enqueue orphan cleanup failed", zap.String("file_id", fileID), zap.Error(err))
		}
	}

	// The request may already be cancelled; the delete must still run.
	inlineCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	s.metrics.RecordCleanup("inline")
	if err := s.files.Remove(inlineCtx, fileID); err != nil {
		s.metrics.RecordCleanup("failed")
		s.logger.Error("inline orphan cleanup failed", zap.String("file_id", fileID), zap.Error(err))
		return
	}
	s.metrics.RecordCleanup("done")
}

// Handle is the jobs.Handler for orphan cleanup jobs.
func (s *CleanupService) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeOrphanFile {
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
	fileID, ok := job.Payload.(string)
	if !ok || fileID == "" {
		return fmt.Errorf("orphan cleanup job %s carries no file id", job.ID)
	}
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.files.Remove(runCtx, fileID); err != nil {
		s.metrics.RecordCleanup("failed")
		return err
	}
	s.metrics.RecordCleanup("done")
	return nil
}

// Dropped is the queue OnDrop callback.
func (s *CleanupService) Dropped(job jobs.Job, err error) {
	s.metrics.RecordCleanup("dropped")
	s.logger.Error("orphan cleanup abandoned", zap.String("job_id", job.ID), zap.Any("payload", job.Payload), zap.Error(err))
}
