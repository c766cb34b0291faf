package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/response"
)

// multipartOverhead leaves room for form fields and part headers next to
// the file itself.
const multipartOverhead int64 = 1 << 20

// UploadTooLarge is the error returned when a request body exceeds the
// upload limit.
func UploadTooLarge(maxFileSize int64) error {
	return appErrors.Validation(fmt.Sprintf("file exceeds maximum size of %d bytes", maxFileSize))
}

// LimitUploadBody caps the request body at maxFileSize plus form overhead.
// Declared lengths over the cap are rejected up front; streamed bodies are
// cut off by http.MaxBytesReader while gin parses the multipart form.
func LimitUploadBody(maxFileSize int64) gin.HandlerFunc {
	if maxFileSize <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limit := maxFileSize + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.Abort(c, UploadTooLarge(maxFileSize))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Set(contextUploadLimitKey, maxFileSize)
		c.Next()
	}
}

const contextUploadLimitKey = "upload_limit"

// UploadLimitFromContext returns the limit set by LimitUploadBody, or 0.
func UploadLimitFromContext(c *gin.Context) int64 {
	if v, ok := c.Get(contextUploadLimitKey); ok {
		if limit, ok := v.(int64); ok {
			return limit
		}
	}
	return 0
}
