package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/export"
)

const projectCachePrefix = "projects:list:"

type projectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Project, error)
}

type fileUploader interface {
	Upload(ctx context.Context, upload FileUpload) (*models.File, error)
}

type orphanScheduler interface {
	ScheduleOrphan(ctx context.Context, fileID string)
}

// ExportResult is a rendered project listing.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProjectService manages projects and their attached brief.
type ProjectService struct {
	repo      projectRepository
	files     fileUploader
	cleanup   orphanScheduler
	cache     *CacheService
	cacheTTL  time.Duration
	exporters map[string]export.Exporter
	validator *validator.Validate
	logger    *zap.Logger
}

// ProjectServiceDeps groups the collaborators of ProjectService.
type ProjectServiceDeps struct {
	Repo      projectRepository
	Files     fileUploader
	Cleanup   orphanScheduler
	Cache     *CacheService
	CacheTTL  time.Duration
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewProjectService constructs a project service with CSV and PDF exporters.
func NewProjectService(deps ProjectServiceDeps) *ProjectService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	csv := export.NewCSVExporter()
	pdf := export.NewPDFExporter()
	return &ProjectService{
		repo:      deps.Repo,
		files:     deps.Files,
		cleanup:   deps.Cleanup,
		cache:     deps.Cache,
		cacheTTL:  deps.CacheTTL,
		exporters: map[string]export.Exporter{csv.Extension(): csv, pdf.Extension(): pdf},
		validator: deps.Validator,
		logger:    deps.Logger,
	}
}

// Create inserts a project. When upload is set its bytes are stored first
// and the resulting file id is recorded on the project.
func (s *ProjectService) Create(ctx context.Context, req dto.CreateProjectRequest, upload *FileUpload) (*models.Project, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.TeacherUID = strings.TrimSpace(req.TeacherUID)
	req.Deadline = strings.TrimSpace(req.Deadline)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and teacher_uid are required; deadline must be YYYY-MM-DD")
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		School:      req.School,
		Filiere:     req.Filiere,
		Matiere:     req.Matiere,
		Status:      strings.TrimSpace(req.Status),
		Year:        req.Year,
		TeacherUID:  req.TeacherUID,
		FileID:      req.FileID,
	}
	if project.Status == "" {
		project.Status = models.DefaultProjectStatus
	}
	if req.Deadline != "" {
		deadline, err := models.ParseDate(req.Deadline)
		if err != nil {
			return nil, appErrors.Validation("deadline must be YYYY-MM-DD")
		}
		project.Deadline = deadline
	}

	var uploadedID string
	if upload != nil {
		file, err := s.files.Upload(ctx, *upload)
		if err != nil {
			return nil, err
		}
		uploadedID = file.ID
		project.FileID = &uploadedID
	}

	if err := s.repo.Create(ctx, project); err != nil {
		s.logger.Error("create project failed", zap.String("teacher_uid", project.TeacherUID), zap.Error(err))
		if uploadedID != "" && s.cleanup != nil {
			s.cleanup.ScheduleOrphan(ctx, uploadedID)
		}
		return nil, appErrors.Store(err, "failed to create project")
	}

	s.cache.Invalidate(ctx, projectCachePrefix+"*")
	return project, nil
}

// List returns the projects matching the query, newest first.
func (s *ProjectService) List(ctx context.Context, query dto.ProjectQuery) ([]models.Project, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// ListByTeacher returns the projects published by a teacher.
func (s *ProjectService) ListByTeacher(ctx context.Context, teacherUID string) ([]models.Project, error) {
	return s.list(ctx, models.ProjectFilter{TeacherUID: teacherUID})
}

// UpdateStatus sets the free-text status of project id.
func (s *ProjectService) UpdateStatus(ctx context.Context, id string, req dto.UpdateProjectStatusRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.NotFound("project not found")
	}
	project, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("project not found")
		}
		return nil, appErrors.Store(err, "failed to update project status")
	}
	s.cache.Invalidate(ctx, projectCachePrefix+"*")
	return project, nil
}

// Export renders the filtered listing in the requested format (csv or pdf).
func (s *ProjectService) Export(ctx context.Context, query dto.ProjectQuery, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Validation("format must be csv or pdf")
	}

	projects, err := s.List(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := exporter.Render(projectDataset(projects), "Projects")
	if err != nil {
		return nil, appErrors.Store(err, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("projects_%s.%s", time.Now().UTC().Format("20060102_150405"), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Data:        data,
	}, nil
}

func (s *ProjectService) list(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	key := projectCacheKey(filter)
	var cached []models.Project
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	projects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list projects")
	}
	if projects == nil {
		projects = []models.Project{}
	}
	s.cache.Set(ctx, key, projects, s.cacheTTL)
	return projects, nil
}

func (s *ProjectService) buildFilter(query dto.ProjectQuery) (models.ProjectFilter, error) {
	if err := s.validator.Struct(query); err != nil {
		return models.ProjectFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "startDate and endDate must be YYYY-MM-DD")
	}
	filter := models.ProjectFilter{
		TeacherUID: strings.TrimSpace(query.TeacherUID),
		School:     strings.TrimSpace(query.School),
		Filiere:    strings.TrimSpace(query.Filiere),
		Matiere:    strings.TrimSpace(query.Matiere),
		Year:       strings.TrimSpace(query.Year),
	}
	if filter.TeacherUID == "" {
		filter.TeacherUID = strings.TrimSpace(query.TeacherUIDAlias)
	}
	if query.StartDate != "" {
		start, err := models.ParseDate(query.StartDate)
		if err != nil {
			return models.ProjectFilter{}, appErrors.Validation("startDate must be YYYY-MM-DD")
		}
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := models.ParseDate(query.EndDate)
		if err != nil {
			return models.ProjectFilter{}, appErrors.Validation("endDate must be YYYY-MM-DD")
		}
		filter.EndDate = &end
	}
	return filter, nil
}

func projectCacheKey(filter models.ProjectFilter) string {
	values := url.Values{}
	set := func(k, v string) {
		if v != "" {
			values.Set(k, v)
		}
	}
	set("teacher_uid", filter.TeacherUID)
	set("school", filter.School)
	set("filiere", filter.Filiere)
	set("matiere", filter.Matiere)
	set("year", filter.Year)
	if filter.StartDate != nil {
		set("start", filter.StartDate.String())
	}
	if filter.EndDate != nil {
		set("end", filter.EndDate.String())
	}
	if len(values) == 0 {
		return projectCachePrefix + "all"
	}
	return projectCachePrefix + values.Encode()
}

func projectDataset(projects []models.Project) export.Dataset {
	headers := []string{"Title", "Teacher", "School", "Filiere", "Matiere", "Year", "Deadline", "Status"}
	rows := make([]map[string]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, map[string]string{
			"Title":    p.Title,
			"Teacher":  p.TeacherUID,
			"School":   p.School,
			"Filiere":  p.Filiere,
			"Matiere":  p.Matiere,
			"Year":     p.Year,
			"Deadline": p.Deadline.String(),
			"Status":   p.Status,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
