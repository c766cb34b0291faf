package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/handler"
	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/internal/service"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

type stubProjects struct{ created int }

func (s *stubProjects) Create(context.Context, dto.CreateProjectRequest, *service.FileUpload) (*models.Project, error) {
	s.created++
	return &models.Project{ID: "p1"}, nil
}
func (s *stubProjects) List(context.Context, dto.ProjectQuery) ([]models.Project, error) {
	return []models.Project{}, nil
}
func (s *stubProjects) ListByTeacher(context.Context, string) ([]models.Project, error) {
	return []models.Project{}, nil
}
func (s *stubProjects) UpdateStatus(context.Context, string, dto.UpdateProjectStatusRequest) (*models.Project, error) {
	return nil, appErrors.NotFound("project not found")
}
func (s *stubProjects) Export(context.Context, dto.ProjectQuery, string) (*service.ExportResult, error) {
	return nil, appErrors.Validation("format must be csv or pdf")
}

type stubFiles struct{}

func (stubFiles) Upload(context.Context, service.FileUpload) (*models.File, error) {
	return nil, errors.New("unused")
}
func (stubFiles) Open(context.Context, string) (*models.File, io.ReadCloser, error) {
	return nil, nil, appErrors.NotFound("file not found")
}
func (stubFiles) OpenByFilename(_ context.Context, name string) (*models.File, io.ReadCloser, error) {
	return &models.File{Filename: name, ContentType: "text/plain", Size: 2}, io.NopCloser(strings.NewReader("hi")), nil
}

type stubVerifier struct{ enabled bool }

func (v stubVerifier) Enabled() bool { return v.enabled }
func (v stubVerifier) Verify(string) (*models.IdentityClaims, error) {
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newTestEngine(identity bool, projects *stubProjects) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(Deps{
		Metrics:      service.NewMetricsService(),
		Identity:     stubVerifier{enabled: identity},
		Users:        handler.NewUserHandler(nil),
		Projects:     handler.NewProjectHandler(projects),
		Deliverables: handler.NewDeliverableHandler(nil),
		Files:        handler.NewFileHandler(stubFiles{}),
		Ops:          handler.NewMetricsHandler(service.NewMetricsService(), nil),
	})
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesRegistered(t *testing.T) {
	r := newTestEngine(false, &stubProjects{})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/projects", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/projects/teacher/t1", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/api/projects/export?format=doc", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPut, "/api/projects/x/status", `{"status":"Done"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/files/abc", "").Code)

	w := serve(r, http.MethodGet, "/files/notes.txt", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestWriteRoutesRequireIdentityWhenEnabled(t *testing.T) {
	projects := &stubProjects{}
	r := newTestEngine(true, projects)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/api/projects", `{"title":"x","teacher_uid":"t1"}`).Code)
	assert.Equal(t, 0, projects.created)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/projects", "").Code)

	r = newTestEngine(false, projects)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/projects", `{"title":"x","teacher_uid":"t1"}`).Code)
	assert.Equal(t, 1, projects.created)
}
