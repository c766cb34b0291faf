package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/internal/service"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/response"
)

type projectService interface {
	Create(ctx context.Context, req dto.CreateProjectRequest, upload *service.FileUpload) (*models.Project, error)
	List(ctx context.Context, query dto.ProjectQuery) ([]models.Project, error)
	ListByTeacher(ctx context.Context, teacherUID string) ([]models.Project, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateProjectStatusRequest) (*models.Project, error)
	Export(ctx context.Context, query dto.ProjectQuery, format string) (*service.ExportResult, error)
}

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	service projectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc projectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// Create godoc
// @Summary Create project
// @Description Create a project from JSON or from a multipart form with an optional file part
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Param payload body dto.CreateProjectRequest true "Project payload"
// @Param file formData file false "Project brief"
// @Success 201 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 403 {object} errors.Error
// @Failure 500 {object} errors.Error
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	var upload *service.FileUpload

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			response.Error(c, multipartError(c, err, "invalid form"))
			return
		}
		u, closeFn, err := openUpload(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		defer closeFn()
		upload = u
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if claims := identityFromContext(c); claims != nil {
		if req.TeacherUID == "" {
			req.TeacherUID = claims.UID()
		} else if req.TeacherUID != claims.UID() {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "teacher_uid must match the signed-in teacher"))
			return
		}
	}

	project, err := h.service.Create(c.Request.Context(), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, response.Message{Message: "Project created successfully", Project: project})
}

// List godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param teacher_uid query string false "Teacher uid (alias teacherUid)"
// @Param school query string false "School"
// @Param filiere query string false "Filiere"
// @Param matiere query string false "Matiere"
// @Param year query string false "Year"
// @Param startDate query string false "Deadline lower bound, YYYY-MM-DD"
// @Param endDate query string false "Deadline upper bound, YYYY-MM-DD"
// @Success 200 {array} models.Project
// @Failure 400 {object} errors.Error
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	query, ok := bindProjectQuery(c)
	if !ok {
		return
	}
	projects, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, projects)
}

// ListByTeacher godoc
// @Summary List projects of a teacher
// @Tags Projects
// @Produce json
// @Param teacher_uid path string true "Teacher uid"
// @Success 200 {array} models.Project
// @Router /api/projects/teacher/{teacher_uid} [get]
func (h *ProjectHandler) ListByTeacher(c *gin.Context) {
	projects, err := h.service.ListByTeacher(c.Request.Context(), c.Param("teacher_uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, projects)
}

// UpdateStatus godoc
// @Summary Update project status
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.UpdateProjectStatusRequest true "Status payload"
// @Success 200 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /api/projects/{id}/status [put]
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	project, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: "Project status updated successfully", Project: project})
}

// Export godoc
// @Summary Export projects
// @Description Render the filtered project list as CSV or PDF
// @Tags Projects
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} errors.Error
// @Router /api/projects/export [get]
func (h *ProjectHandler) Export(c *gin.Context) {
	query, ok := bindProjectQuery(c)
	if !ok {
		return
	}
	result, err := h.service.Export(c.Request.Context(), query, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func bindProjectQuery(c *gin.Context) (dto.ProjectQuery, bool) {
	var query dto.ProjectQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return query, false
	}
	return query, true
}
