package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/response"
)

type deliverableService interface {
	Create(ctx context.Context, req dto.CreateDeliverableRequest) (*models.Deliverable, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Deliverable, error)
	Delete(ctx context.Context, id string) error
}

// DeliverableHandler handles deliverable endpoints.
type DeliverableHandler struct {
	service deliverableService
}

// NewDeliverableHandler creates a new deliverable handler.
func NewDeliverableHandler(svc deliverableService) *DeliverableHandler {
	return &DeliverableHandler{service: svc}
}

// Create godoc
// @Summary Create deliverable
// @Tags Deliverables
// @Accept json
// @Produce json
// @Param payload body dto.CreateDeliverableRequest true "Deliverable payload"
// @Success 201 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 500 {object} errors.Error
// @Router /api/deliverables [post]
func (h *DeliverableHandler) Create(c *gin.Context) {
	var req dto.CreateDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	deliverable, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, response.Message{Message: "Deliverable created successfully", Deliverable: deliverable})
}

// ListByProject godoc
// @Summary List deliverables of a project
// @Tags Deliverables
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {array} models.Deliverable
// @Router /api/deliverables/{project_id} [get]
func (h *DeliverableHandler) ListByProject(c *gin.Context) {
	items, err := h.service.ListByProject(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Delete godoc
// @Summary Delete deliverable
// @Tags Deliverables
// @Produce json
// @Param id path string true "Deliverable ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} errors.Error
// @Router /api/deliverables/{id} [delete]
func (h *DeliverableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: "Deliverable deleted successfully"})
}
