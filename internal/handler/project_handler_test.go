package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/middleware"
	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/internal/service"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

type fakeProjectSrv struct {
	lastReq     dto.CreateProjectRequest
	lastUpload  []byte
	uploadType  string
	lastQuery   dto.ProjectQuery
	lastTeacher string
	lastFormat  string
}

func (f *fakeProjectSrv) Create(_ context.Context, req dto.CreateProjectRequest, upload *service.FileUpload) (*models.Project, error) {
	f.lastReq = req
	if req.Title == "" {
		return nil, appErrors.Validation("title is required")
	}
	p := &models.Project{ID: "p1", Title: req.Title, TeacherUID: req.TeacherUID, Status: models.DefaultProjectStatus}
	if upload != nil {
		f.lastUpload, _ = io.ReadAll(upload.Body)
		f.uploadType = upload.ContentType
		id := "f1"
		p.FileID = &id
	}
	return p, nil
}

func (f *fakeProjectSrv) List(_ context.Context, q dto.ProjectQuery) ([]models.Project, error) {
	f.lastQuery = q
	return []models.Project{}, nil
}

func (f *fakeProjectSrv) ListByTeacher(_ context.Context, uid string) ([]models.Project, error) {
	f.lastTeacher = uid
	return []models.Project{{ID: "p1", TeacherUID: uid}}, nil
}

func (f *fakeProjectSrv) UpdateStatus(_ context.Context, id string, req dto.UpdateProjectStatusRequest) (*models.Project, error) {
	if req.Status == "" {
		return nil, appErrors.Validation("status is required")
	}
	if id != "p1" {
		return nil, appErrors.NotFound("project not found")
	}
	return &models.Project{ID: id, Status: req.Status}, nil
}

func (f *fakeProjectSrv) Export(_ context.Context, q dto.ProjectQuery, format string) (*service.ExportResult, error) {
	f.lastFormat = format
	if format == "xlsx" {
		return nil, appErrors.Validation("format must be csv or pdf")
	}
	return &service.ExportResult{Filename: "projects.csv", ContentType: "text/csv", Data: []byte("Title\nA\n")}, nil
}

func newProjectRouter(srv *fakeProjectSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProjectHandler(srv)
	r := gin.New()
	r.POST("/api/projects", h.Create)
	r.GET("/api/projects", h.List)
	r.GET("/api/projects/export", h.Export)
	r.GET("/api/projects/teacher/:teacher_uid", h.ListByTeacher)
	r.PUT("/api/projects/:id/status", h.UpdateStatus)
	return r
}

func TestProjectHandlerCreateJSON(t *testing.T) {
	srv := &fakeProjectSrv{}
	r := newProjectRouter(srv)

	w := doJSON(r, http.MethodPost, "/api/projects", map[string]string{"title": "Compilers", "teacher_uid": "t1", "deadline": "2024-12-20"})
	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Message string         `json:"message"`
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Compilers", body.Project.Title)
	assert.Equal(t, "2024-12-20", srv.lastReq.Deadline)
}

func TestProjectHandlerCreateMultipart(t *testing.T) {
	srv := &fakeProjectSrv{}
	r := newProjectRouter(srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Networks"))
	require.NoError(t, mw.WriteField("teacher_uid", "t9"))
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="brief.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 brief"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projects", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "t9", srv.lastReq.TeacherUID)
	assert.Equal(t, []byte("%PDF-1.4 brief"), srv.lastUpload)
	assert.Equal(t, "application/pdf", srv.uploadType)
	assert.Contains(t, w.Body.String(), `"file_id":"f1"`)
}

func TestProjectHandlerCreateUsesIdentitySubject(t *testing.T) {
	srv := &fakeProjectSrv{}
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(`{"title":"OS"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextIdentityKey, &models.IdentityClaims{Role: models.RoleTeacher, RegisteredClaims: jwt.RegisteredClaims{Subject: "t-claims"}})

	NewProjectHandler(srv).Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "t-claims", srv.lastReq.TeacherUID)
}

func TestProjectHandlerCreateRejectsForeignTeacherUID(t *testing.T) {
	srv := &fakeProjectSrv{}
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(`{"title":"OS","teacher_uid":"someone-else"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextIdentityKey, &models.IdentityClaims{Role: models.RoleTeacher, RegisteredClaims: jwt.RegisteredClaims{Subject: "t-claims"}})

	NewProjectHandler(srv).Create(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	assert.Empty(t, srv.lastReq.Title)
}

func TestProjectHandlerListQuery(t *testing.T) {
	srv := &fakeProjectSrv{}
	r := newProjectRouter(srv)

	w := doJSON(r, http.MethodGet, "/api/projects?teacherUid=t1&school=ENSA&startDate=2024-01-01&endDate=2024-06-30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, "t1", srv.lastQuery.TeacherUIDAlias)
	assert.Equal(t, "ENSA", srv.lastQuery.School)
	assert.Equal(t, "2024-06-30", srv.lastQuery.EndDate)

	w = doJSON(r, http.MethodGet, "/api/projects/teacher/t7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t7", srv.lastTeacher)
}

func TestProjectHandlerUpdateStatus(t *testing.T) {
	r := newProjectRouter(&fakeProjectSrv{})

	w := doJSON(r, http.MethodPut, "/api/projects/p1/status", map[string]string{"status": "Archived for later"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Archived for later")

	w = doJSON(r, http.MethodPut, "/api/projects/p1/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/projects/nope/status", map[string]string{"status": "Done"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandlerExport(t *testing.T) {
	srv := &fakeProjectSrv{}
	r := newProjectRouter(srv)

	w := doJSON(r, http.MethodGet, "/api/projects/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="projects.csv"`, w.Header().Get("Content-Disposition"))

	w = doJSON(r, http.MethodGet, "/api/projects/export?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
