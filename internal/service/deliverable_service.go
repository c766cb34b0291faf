package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

type deliverableRepository interface {
	Create(ctx context.Context, deliverable *models.Deliverable) error
	ListByProject(ctx context.Context, projectID string) ([]models.Deliverable, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// DeliverableService manages the deliverables of a project.
type DeliverableService struct {
	repo      deliverableRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDeliverableService creates an instance of DeliverableService.
func NewDeliverableService(repo deliverableRepository, validate *validator.Validate, logger *zap.Logger) *DeliverableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DeliverableService{repo: repo, validator: validate, logger: logger}
}

// Create attaches a deliverable to a project. An unknown project is rejected
// by the store and surfaces as a store error.
func (s *DeliverableService) Create(ctx context.Context, req dto.CreateDeliverableRequest) (*models.Deliverable, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "project_id, title and deadline (YYYY-MM-DD) are required")
	}
	deadline, err := models.ParseDate(req.Deadline)
	if err != nil {
		return nil, appErrors.Validation("deadline must be YYYY-MM-DD")
	}

	deliverable := &models.Deliverable{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		FileID:      req.FileID,
		Deadline:    deadline,
	}
	if err := s.repo.Create(ctx, deliverable); err != nil {
		s.logger.Error("create deliverable failed", zap.String("project_id", req.ProjectID), zap.Error(err))
		return nil, appErrors.Store(err, "failed to create deliverable")
	}
	return deliverable, nil
}

// ListByProject returns the deliverables of projectID ordered by deadline.
// A malformed id cannot match any project and yields an empty list.
func (s *DeliverableService) ListByProject(ctx context.Context, projectID string) ([]models.Deliverable, error) {
	if _, err := uuid.Parse(projectID); err != nil {
		return []models.Deliverable{}, nil
	}
	items, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list deliverables")
	}
	if items == nil {
		items = []models.Deliverable{}
	}
	return items, nil
}

// Delete removes deliverable id, returning NOT_FOUND when nothing was deleted.
func (s *DeliverableService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.NotFound("deliverable not found")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Store(err, "failed to delete deliverable")
	}
	if affected == 0 {
		return appErrors.NotFound("deliverable not found")
	}
	return nil
}
