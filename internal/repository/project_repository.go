package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-projects-api/internal/models"
)

const projectColumns = `id, title, description, school, filiere, matiere, deadline, status, year, teacher_uid, file_id, created_at, updated_at`

// ProjectRepository provides database access for projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project row.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	const query = `INSERT INTO projects (id, title, description, school, filiere, matiere, deadline, status, year, teacher_uid, file_id, created_at, updated_at) VALUES (:id, :title, :description, :school, :filiere, :matiere, :deadline, :status, :year, :teacher_uid, :file_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// List returns projects matching every set predicate of the filter, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	var conditions []string
	var args []interface{}

	add := func(expr string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}
	if filter.TeacherUID != "" {
		add("teacher_uid = $%d", filter.TeacherUID)
	}
	if filter.School != "" {
		add("school = $%d", filter.School)
	}
	if filter.Filiere != "" {
		add("filiere = $%d", filter.Filiere)
	}
	if filter.Matiere != "" {
		add("matiere = $%d", filter.Matiere)
	}
	if filter.Year != "" {
		add("year = $%d", filter.Year)
	}
	if filter.StartDate != nil {
		add("deadline >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("deadline <= $%d", *filter.EndDate)
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	projects := make([]models.Project, 0)
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// FindByID returns a project by identifier.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return &project, nil
}

// UpdateStatus sets the status of a project and returns the updated row.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Project, error) {
	query := `UPDATE projects SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + projectColumns
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id, status, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update project status: %w", err)
	}
	return &project, nil
}
