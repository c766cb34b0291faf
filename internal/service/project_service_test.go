package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

type mockProjectRepo struct {
	projects   []models.Project
	createErr  error
	lastFilter models.ProjectFilter
	listCalls  int
}

func (m *mockProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	project.ID = "p-" + project.Title
	m.projects = append(m.projects, *project)
	return nil
}

func (m *mockProjectRepo) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	m.listCalls++
	m.lastFilter = filter
	var out []models.Project
	for _, p := range m.projects {
		if filter.School != "" && p.School != filter.School {
			continue
		}
		if filter.TeacherUID != "" && p.TeacherUID != filter.TeacherUID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Project, error) {
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects[i].Status = status
			copy := m.projects[i]
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

type recordingScheduler struct {
	scheduled []string
}

func (r *recordingScheduler) ScheduleOrphan(ctx context.Context, fileID string) {
	r.scheduled = append(r.scheduled, fileID)
}

type memCacheRepo struct {
	entries     map[string][]models.Project
	invalidated []string
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*[]models.Project)) = v
	return nil
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.entries[key] = value.([]models.Project)
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func newProjectServiceForTest(repo *mockProjectRepo, files fileUploader, sched orphanScheduler, cache *CacheService) *ProjectService {
	return NewProjectService(ProjectServiceDeps{Repo: repo, Files: files, Cleanup: sched, Cache: cache})
}

func TestProjectServiceCreateDefaults(t *testing.T) {
	repo := &mockProjectRepo{}
	svc := newProjectServiceForTest(repo, nil, nil, nil)

	project, err := svc.Create(context.Background(), dto.CreateProjectRequest{Title: "Compilers", TeacherUID: "t1", Deadline: "2024-12-20"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProjectStatus, project.Status)
	assert.Equal(t, "2024-12-20", project.Deadline.String())
	assert.Nil(t, project.FileID)
}

func TestProjectServiceCreateValidation(t *testing.T) {
	svc := newProjectServiceForTest(&mockProjectRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateProjectRequest{TeacherUID: "t1"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), dto.CreateProjectRequest{Title: "x"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), dto.CreateProjectRequest{Title: "x", TeacherUID: "t1", Deadline: "20/12/2024"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestProjectServiceCreateWithUpload(t *testing.T) {
	blobs := newMemBlobStore()
	files := NewFileService(newMockFileRepo(), blobs, 0, nil, nil)
	repo := &mockProjectRepo{}
	svc := newProjectServiceForTest(repo, files, nil, nil)

	upload := &FileUpload{Filename: "brief.txt", ContentType: "text/plain", Size: 5, Body: bytes.NewReader([]byte("hello"))}
	project, err := svc.Create(context.Background(), dto.CreateProjectRequest{Title: "Networks", TeacherUID: "t1"}, upload)
	require.NoError(t, err)
	require.NotNil(t, project.FileID)
	assert.True(t, blobs.has(*project.FileID))
}

func TestProjectServiceCreateFailureSchedulesOrphanCleanup(t *testing.T) {
	blobs := newMemBlobStore()
	files := NewFileService(newMockFileRepo(), blobs, 0, nil, nil)
	sched := &recordingScheduler{}
	svc := newProjectServiceForTest(&mockProjectRepo{createErr: errors.New("insert failed")}, files, sched, nil)

	upload := &FileUpload{Filename: "brief.txt", ContentType: "text/plain", Size: 5, Body: bytes.NewReader([]byte("hello"))}
	_, err := svc.Create(context.Background(), dto.CreateProjectRequest{Title: "Networks", TeacherUID: "t1"}, upload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStore))
	require.Len(t, sched.scheduled, 1)
	assert.True(t, blobs.has(sched.scheduled[0]))
}

func TestProjectServiceUploadFailureSkipsInsert(t *testing.T) {
	blobs := newMemBlobStore()
	blobs.putErr = errors.New("bucket offline")
	repo := &mockProjectRepo{}
	svc := newProjectServiceForTest(repo, NewFileService(newMockFileRepo(), blobs, 0, nil, nil), nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateProjectRequest{Title: "x", TeacherUID: "t1"}, &FileUpload{Filename: "a", Size: 1, Body: bytes.NewReader([]byte("a"))})
	require.Error(t, err)
	assert.Empty(t, repo.projects)
}

func TestProjectServiceListFilters(t *testing.T) {
	repo := &mockProjectRepo{projects: []models.Project{
		{ID: "1", Title: "A", School: "ENSA", TeacherUID: "t1"},
		{ID: "2", Title: "B", School: "FST", TeacherUID: "t1"},
		{ID: "3", Title: "C", School: "ENSA", TeacherUID: "t2"},
	}}
	svc := newProjectServiceForTest(repo, nil, nil, nil)

	projects, err := svc.List(context.Background(), dto.ProjectQuery{School: "ENSA", TeacherUIDAlias: "t1", StartDate: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "A", projects[0].Title)
	assert.Equal(t, "t1", repo.lastFilter.TeacherUID)
	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Nil(t, repo.lastFilter.EndDate)

	_, err = svc.List(context.Background(), dto.ProjectQuery{EndDate: "tomorrow"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	empty, err := svc.ListByTeacher(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestProjectServiceListUsesCache(t *testing.T) {
	repo := &mockProjectRepo{projects: []models.Project{{ID: "1", Title: "A", TeacherUID: "t1"}}}
	cacheRepo := &memCacheRepo{entries: map[string][]models.Project{}}
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true)
	svc := newProjectServiceForTest(repo, nil, nil, cache)

	_, err := svc.List(context.Background(), dto.ProjectQuery{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), dto.ProjectQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(context.Background(), dto.CreateProjectRequest{Title: "B", TeacherUID: "t1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{projectCachePrefix + "*"}, cacheRepo.invalidated)

	projects, err := svc.List(context.Background(), dto.ProjectQuery{})
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestProjectServiceUpdateStatus(t *testing.T) {
	id := "0b7f6f0e-7a39-4a0e-9a8c-9a4b6a1d2c3e"
	repo := &mockProjectRepo{projects: []models.Project{{ID: id, Title: "A", Status: "Active"}}}
	svc := newProjectServiceForTest(repo, nil, nil, nil)

	project, err := svc.UpdateStatus(context.Background(), id, dto.UpdateProjectStatusRequest{Status: "Waiting on external jury"})
	require.NoError(t, err)
	assert.Equal(t, "Waiting on external jury", project.Status)

	_, err = svc.UpdateStatus(context.Background(), id, dto.UpdateProjectStatusRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateStatus(context.Background(), "not-a-uuid", dto.UpdateProjectStatusRequest{Status: "Done"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.UpdateStatus(context.Background(), "9d4c1f4e-1111-4a0e-9a8c-9a4b6a1d2c3e", dto.UpdateProjectStatusRequest{Status: "Done"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestProjectServiceExport(t *testing.T) {
	deadline, _ := models.ParseDate("2024-12-20")
	repo := &mockProjectRepo{projects: []models.Project{{ID: "1", Title: "Compilers", TeacherUID: "t1", Deadline: deadline, Status: "Active"}}}
	svc := newProjectServiceForTest(repo, nil, nil, nil)

	csvOut, err := svc.Export(context.Background(), dto.ProjectQuery{}, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", csvOut.ContentType)
	assert.True(t, strings.HasSuffix(csvOut.Filename, ".csv"))
	assert.Contains(t, string(csvOut.Data), "Compilers")
	assert.Contains(t, string(csvOut.Data), "2024-12-20")

	pdfOut, err := svc.Export(context.Background(), dto.ProjectQuery{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfOut.ContentType)
	assert.True(t, bytes.HasPrefix(pdfOut.Data, []byte("%PDF")))

	_, err = svc.Export(context.Background(), dto.ProjectQuery{}, "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
