package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-projects-api/internal/models"
)

// FileRepository stores upload metadata. The bytes live in the blob store
// under the same id.
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository creates a new instance of FileRepository.
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts a file metadata row.
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO files (id, filename, content_type, size, created_at) VALUES (:id, :filename, :content_type, :size, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// FindByID returns file metadata by identifier.
func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.File, error) {
	const query = `SELECT id, filename, content_type, size, created_at FROM files WHERE id = $1`
	var file models.File
	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find file by id: %w", err)
	}
	return &file, nil
}

// FindLatestByFilename returns the most recently uploaded file with the name.
func (r *FileRepository) FindLatestByFilename(ctx context.Context, filename string) (*models.File, error) {
	const query = `SELECT id, filename, content_type, size, created_at FROM files WHERE filename = $1 ORDER BY created_at DESC LIMIT 1`
	var file models.File
	if err := r.db.GetContext(ctx, &file, query, filename); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find file by filename: %w", err)
	}
	return &file, nil
}

// Delete removes a file metadata row. Deleting a missing row is not an error.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM files WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
