package service

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/storage"
)

// sniffLen is how many leading bytes are inspected when the client did not
// send a usable content type.
const sniffLen = 3072

const defaultContentType = "application/octet-stream"

type fileRepository interface {
	Create(ctx context.Context, file *models.File) error
	FindByID(ctx context.Context, id string) (*models.File, error)
	FindLatestByFilename(ctx context.Context, filename string) (*models.File, error)
	Delete(ctx context.Context, id string) error
}

// FileUpload is one multipart file part.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileService stores upload bytes in the blob store and their metadata in
// the relational store. The file id is the blob key.
type FileService struct {
	repo    fileRepository
	blobs   storage.BlobStore
	maxSize int64
	metrics *MetricsService
	logger  *zap.Logger
}

// NewFileService constructs a file service. maxSize <= 0 disables the limit.
func NewFileService(repo fileRepository, blobs storage.BlobStore, maxSize int64, metrics *MetricsService, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{repo: repo, blobs: blobs, maxSize: maxSize, metrics: metrics, logger: logger}
}

// Upload streams the body to the blob store and records its metadata. When
// the metadata insert fails the blob is removed again.
func (s *FileService) Upload(ctx context.Context, upload FileUpload) (*models.File, error) {
	if upload.Body == nil {
		return nil, appErrors.Validation("file is required")
	}
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return nil, appErrors.Validation(fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxSize))
	}

	body := bufio.NewReaderSize(upload.Body, sniffLen)
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" || strings.HasPrefix(contentType, defaultContentType) {
		head, _ := body.Peek(sniffLen)
		contentType = mimetype.Detect(head).String()
	}

	file := &models.File{
		ID:          uuid.NewString(),
		Filename:    cleanFilename(upload.Filename),
		ContentType: contentType,
		Size:        upload.Size,
	}

	start := time.Now()
	err := s.blobs.Put(ctx, file.ID, body, upload.Size, contentType)
	s.metrics.ObserveBlobOperation("put", err, time.Since(start))
	if err != nil {
		s.logger.Error("store blob failed", zap.String("file_id", file.ID), zap.Error(err))
		return nil, appErrors.Store(err, "failed to store file")
	}

	if err := s.repo.Create(ctx, file); err != nil {
		s.logger.Error("record file metadata failed", zap.String("file_id", file.ID), zap.Error(err))
		s.deleteBlob(ctx, file.ID)
		return nil, appErrors.Store(err, "failed to record file")
	}
	s.metrics.AddUploadBytes(file.Size)
	return file, nil
}

// Open returns the metadata and a reader over the bytes of file id. The
// caller closes the reader.
func (s *FileService) Open(ctx context.Context, id string) (*models.File, io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, appErrors.Validation("invalid file id")
	}
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, s.lookupError(err)
	}
	return s.openBlob(ctx, file)
}

// OpenByFilename opens the most recent file uploaded under filename.
func (s *FileService) OpenByFilename(ctx context.Context, filename string) (*models.File, io.ReadCloser, error) {
	file, err := s.repo.FindLatestByFilename(ctx, filename)
	if err != nil {
		return nil, nil, s.lookupError(err)
	}
	return s.openBlob(ctx, file)
}

// Remove deletes the blob and then the metadata row of file id. Missing
// entries are not an error so the call can be retried.
func (s *FileService) Remove(ctx context.Context, id string) error {
	start := time.Now()
	err := s.blobs.Delete(ctx, id)
	s.metrics.ObserveBlobOperation("delete", err, time.Since(start))
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete file row %s: %w", id, err)
	}
	return nil
}

func (s *FileService) openBlob(ctx context.Context, file *models.File) (*models.File, io.ReadCloser, error) {
	start := time.Now()
	rc, err := s.blobs.Get(ctx, file.ID)
	s.metrics.ObserveBlobOperation("get", err, time.Since(start))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, appErrors.NotFound("file not found")
		}
		return nil, nil, appErrors.Store(err, "failed to read file")
	}
	return file, rc, nil
}

func (s *FileService) lookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NotFound("file not found")
	}
	return appErrors.Store(err, "failed to load file")
}

func (s *FileService) deleteBlob(ctx context.Context, id string) {
	if err := s.blobs.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warn("remove blob after failed insert", zap.String("file_id", id), zap.Error(err))
	}
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}

// DispositionFor returns the Content-Disposition type for a stored content
// type: PDFs render inline, everything else downloads.
func DispositionFor(contentType string) string {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if mt == "application/pdf" {
		return "inline"
	}
	return "attachment"
}
