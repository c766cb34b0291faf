package api

import "time"

// Deliverable is a submission artifact attached to a project.
type Deliverable struct {
	ID          string    `db:"id" json:"id"`
	ProjectID   string    `db:"project_id" json:"project_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	FileID      *string   `db:"file_id" json:"file_id,omitempty"`
	Deadline    Date      `db:"deadline" json:"deadline"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CreateDeliverableRequest attaches a deliverable to a project.
type CreateDeliverableRequest struct {
	ProjectID   string  `json:"project_id" validate:"required,uuid"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	FileID      *string `json:"file_id" validate:"omitempty,uuid"`
	Deadline    string  `json:"deadline" validate:"required,datetime=2006-01-02"`
}
