package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-projects-api/internal/models"
)

// DeliverableRepository provides database access for deliverables.
type DeliverableRepository struct {
	db *sqlx.DB
}

// NewDeliverableRepository creates a new instance of DeliverableRepository.
func NewDeliverableRepository(db *sqlx.DB) *DeliverableRepository {
	return &DeliverableRepository{db: db}
}

// Create inserts a deliverable. A missing project surfaces as a foreign key error.
func (r *DeliverableRepository) Create(ctx context.Context, deliverable *models.Deliverable) error {
	if deliverable.ID == "" {
		deliverable.ID = uuid.NewString()
	}
	if deliverable.CreatedAt.IsZero() {
		deliverable.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO deliverables (id, project_id, title, description, file_id, deadline, created_at) VALUES (:id, :project_id, :title, :description, :file_id, :deadline, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, deliverable); err != nil {
		return fmt.Errorf("create deliverable: %w", err)
	}
	return nil
}

// ListByProject returns the deliverables of a project ordered by deadline.
func (r *DeliverableRepository) ListByProject(ctx context.Context, projectID string) ([]models.Deliverable, error) {
	const query = `SELECT id, project_id, title, description, file_id, deadline, created_at FROM deliverables WHERE project_id = $1 ORDER BY deadline ASC, created_at ASC`
	deliverables := make([]models.Deliverable, 0)
	if err := r.db.SelectContext(ctx, &deliverables, query, projectID); err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	return deliverables, nil
}

// Delete removes a deliverable and reports how many rows were deleted.
func (r *DeliverableRepository) Delete(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM deliverables WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete deliverable: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete deliverable rows affected: %w", err)
	}
	return affected, nil
}
