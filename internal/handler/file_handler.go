package handler

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/internal/service"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/response"
)

type fileService interface {
	Upload(ctx context.Context, upload service.FileUpload) (*models.File, error)
	Open(ctx context.Context, id string) (*models.File, io.ReadCloser, error)
	OpenByFilename(ctx context.Context, filename string) (*models.File, io.ReadCloser, error)
}

// FileHandler serves uploads stored in the blob store.
type FileHandler struct {
	service fileService
}

// NewFileHandler creates a new file handler.
func NewFileHandler(svc fileService) *FileHandler {
	return &FileHandler{service: svc}
}

// Upload godoc
// @Summary Upload file
// @Tags Files
// @Accept mpfd
// @Produce json
// @Param file formData file true "File"
// @Success 201 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 500 {object} errors.Error
// @Router /api/files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	upload, closeFn, err := openUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()
	if upload == nil {
		response.Error(c, appErrors.Validation("file is required"))
		return
	}

	file, err := h.service.Upload(c.Request.Context(), *upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, response.Message{Message: "File uploaded successfully", File: file})
}

// Get godoc
// @Summary Download file
// @Description Stream file bytes; PDFs are served inline, other types as attachments
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} file
// @Failure 400 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /api/files/{id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	file, rc, err := h.service.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file, rc)
}

// GetByFilename godoc
// @Summary Download file by name
// @Description Stream the most recent upload with the given filename
// @Tags Files
// @Produce octet-stream
// @Param filename path string true "Filename"
// @Success 200 {file} file
// @Failure 404 {object} errors.Error
// @Router /files/{filename} [get]
func (h *FileHandler) GetByFilename(c *gin.Context) {
	file, rc, err := h.service.OpenByFilename(c.Request.Context(), c.Param("filename"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file, rc)
}

func serveFile(c *gin.Context, file *models.File, rc io.ReadCloser) {
	defer rc.Close()
	disposition := mime.FormatMediaType(service.DispositionFor(file.ContentType), map[string]string{"filename": file.Filename})
	if disposition == "" {
		disposition = service.DispositionFor(file.ContentType)
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, file.Size, contentType, rc, map[string]string{
		"Content-Disposition": disposition,
	})
}
