package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		*seen = Value(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	w := httptest.NewRecorder()
	newEngine(&seen).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderKey))
}

func TestMiddlewareKeepsCallerID(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderKey, "abc-123")
	w := httptest.NewRecorder()
	newEngine(&seen).ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderKey, strings.Repeat("x", maxLength+1))
	w := httptest.NewRecorder()
	newEngine(&seen).ServeHTTP(w, req)

	assert.Len(t, seen, 36)
}
