package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-projects-api/internal/middleware"
	"github.com/noah-isme/campus-projects-api/internal/service"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

// openUpload returns the "file" part of a multipart request, or nil when the
// request carries none. The caller must call the returned close func.
func openUpload(c *gin.Context) (*service.FileUpload, func(), error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, nil, multipartError(c, err, "invalid multipart body")
	}
	return openFileHeader(header)
}

func openFileHeader(header *multipart.FileHeader) (*service.FileUpload, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable file part")
	}
	upload := &service.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}
	return upload, func() { _ = f.Close() }, nil
}

// multipartError reports a body cut off by the upload limit as an oversize
// file and anything else as a malformed form.
func multipartError(c *gin.Context, err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return middleware.UploadTooLarge(middleware.UploadLimitFromContext(c))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
