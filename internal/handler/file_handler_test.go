package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-projects-api/internal/middleware"
	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/internal/service"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

type fakeFileSrv struct {
	files map[string]models.File
	data  map[string][]byte
}

func (f *fakeFileSrv) Upload(_ context.Context, upload service.FileUpload) (*models.File, error) {
	data, _ := io.ReadAll(upload.Body)
	file := models.File{ID: "f-new", Filename: upload.Filename, ContentType: upload.ContentType, Size: int64(len(data))}
	f.files[file.ID] = file
	f.data[file.ID] = data
	return &file, nil
}

func (f *fakeFileSrv) Open(_ context.Context, id string) (*models.File, io.ReadCloser, error) {
	if id == "bad" {
		return nil, nil, appErrors.Validation("invalid file id")
	}
	file, ok := f.files[id]
	if !ok {
		return nil, nil, appErrors.NotFound("file not found")
	}
	return &file, io.NopCloser(bytes.NewReader(f.data[id])), nil
}

func (f *fakeFileSrv) OpenByFilename(ctx context.Context, name string) (*models.File, io.ReadCloser, error) {
	for id, file := range f.files {
		if file.Filename == name {
			return f.Open(ctx, id)
		}
	}
	return nil, nil, appErrors.NotFound("file not found")
}

func newFileRouter(srv *fakeFileSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFileHandler(srv)
	r := gin.New()
	r.POST("/api/files", h.Upload)
	r.GET("/api/files/:id", h.Get)
	r.GET("/files/:filename", h.GetByFilename)
	return r
}

func seededFileSrv() *fakeFileSrv {
	return &fakeFileSrv{
		files: map[string]models.File{
			"pdf": {ID: "pdf", Filename: "brief.pdf", ContentType: "application/pdf", Size: 8},
			"png": {ID: "png", Filename: "diagram.png", ContentType: "image/png", Size: 3},
		},
		data: map[string][]byte{"pdf": []byte("%PDF-1.4"), "png": []byte("png")},
	}
}

func TestFileHandlerServesPDFInline(t *testing.T) {
	r := newFileRouter(seededFileSrv())

	w := doJSON(r, http.MethodGet, "/api/files/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=brief.pdf", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestFileHandlerServesOthersAsAttachment(t *testing.T) {
	r := newFileRouter(seededFileSrv())

	w := doJSON(r, http.MethodGet, "/files/diagram.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=diagram.png", w.Header().Get("Content-Disposition"))
}

func TestFileHandlerErrors(t *testing.T) {
	r := newFileRouter(seededFileSrv())
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/files/bad", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/api/files/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/files/missing.txt", nil).Code)
}

func TestFileHandlerUpload(t *testing.T) {
	srv := seededFileSrv()
	r := newFileRouter(srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"filename":"notes.txt"`)
	assert.Equal(t, []byte("hello"), srv.data["f-new"])

	empty := multipart.NewWriter(&bytes.Buffer{})
	req = httptest.NewRequest(http.MethodPost, "/api/files", bytes.NewBufferString("--"+empty.Boundary()+"--\r\n"))
	req.Header.Set("Content-Type", empty.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileHandlerUploadOverLimitStopsAtReader(t *testing.T) {
	srv := seededFileSrv()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/files", middleware.LimitUploadBody(8), NewFileHandler(srv).Upload)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "huge.bin")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte("z"), 2<<20))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file exceeds maximum size of 8 bytes")
	assert.NotContains(t, srv.data, "f-new")
}
