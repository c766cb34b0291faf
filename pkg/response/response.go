package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

// Message is the body returned by write endpoints. Exactly one of the
// payload fields is set depending on the resource.
type Message struct {
	Message     string      `json:"message"`
	UserID      string      `json:"userId,omitempty"`
	Profile     interface{} `json:"profile,omitempty"`
	Project     interface{} `json:"project,omitempty"`
	Deliverable interface{} `json:"deliverable,omitempty"`
	File        interface{} `json:"file,omitempty"`
}

// JSON sends the body as-is with no-store caching headers.
func JSON(c *gin.Context, status int, body interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, body interface{}) {
	JSON(c, http.StatusOK, body)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, body interface{}) {
	JSON(c, http.StatusCreated, body)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, appErr)
}

// Abort writes the error and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
