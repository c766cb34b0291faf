package client

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"strings"

	"github.com/noah-isme/campus-projects-api/pkg/api"
)

// FilePart is a file attached to a multipart request.
type FilePart struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type messageBody struct {
	Message     string              `json:"message"`
	UserID      string              `json:"userId"`
	Profile     *api.Profile     `json:"profile"`
	Project     *api.Project     `json:"project"`
	Deliverable *api.Deliverable `json:"deliverable"`
	File        *api.File        `json:"file"`
}

// Users

// CreateUser registers a user and returns the generated id.
func (c *Client) CreateUser(ctx context.Context, req api.CreateUserRequest) (string, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", nil, req, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// GetUser fetches a user by identity uid.
func (c *Client) GetUser(ctx context.Context, uid string) (*api.User, error) {
	var user api.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/"+url.PathEscape(uid), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers lists users, optionally restricted to one role.
func (c *Client) ListUsers(ctx context.Context, role api.UserRole) ([]api.User, error) {
	query := url.Values{}
	if role != "" {
		query.Set("role", string(role))
	}
	users := make([]api.User, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile replaces the academic profile of a user.
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.Profile, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodPut, "/api/profile", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// Projects

// CreateProject creates a project from a JSON body.
func (c *Client) CreateProject(ctx context.Context, req api.CreateProjectRequest) (*api.Project, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Project, nil
}

// CreateProjectWithFile creates a project from a multipart form carrying
// the project fields and an attached file.
func (c *Client) CreateProjectWithFile(ctx context.Context, req api.CreateProjectRequest, file FilePart) (*api.Project, error) {
	var out messageBody
	if err := c.doMultipart(ctx, "/api/projects", formFields(req), &file, &out); err != nil {
		return nil, err
	}
	return out.Project, nil
}

// ListProjects lists projects matching the query.
func (c *Client) ListProjects(ctx context.Context, query api.ProjectQuery) ([]api.Project, error) {
	projects := make([]api.Project, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", queryValues(query), nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjectsByTeacher lists the projects published by one teacher.
func (c *Client) ListProjectsByTeacher(ctx context.Context, teacherUID string) ([]api.Project, error) {
	projects := make([]api.Project, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/teacher/"+url.PathEscape(teacherUID), nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProjectStatus sets a free-text status on a project.
func (c *Client) UpdateProjectStatus(ctx context.Context, id, status string) (*api.Project, error) {
	var out messageBody
	body := api.UpdateProjectStatusRequest{Status: status}
	if err := c.doJSON(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Project, nil
}

// ExportProjects downloads the filtered listing as csv or pdf.
func (c *Client) ExportProjects(ctx context.Context, query api.ProjectQuery, format string) (*Download, error) {
	values := queryValues(query)
	if format != "" {
		values.Set("format", format)
	}
	return c.download(ctx, "/api/projects/export", values)
}

// Deliverables

// CreateDeliverable attaches a deliverable to a project.
func (c *Client) CreateDeliverable(ctx context.Context, req api.CreateDeliverableRequest) (*api.Deliverable, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodPost, "/api/deliverables", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Deliverable, nil
}

// ListDeliverables lists the deliverables of a project by deadline.
func (c *Client) ListDeliverables(ctx context.Context, projectID string) ([]api.Deliverable, error) {
	items := make([]api.Deliverable, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/api/deliverables/"+url.PathEscape(projectID), nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteDeliverable removes a deliverable.
func (c *Client) DeleteDeliverable(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/deliverables/"+url.PathEscape(id), nil, nil, nil)
}

// Files

// UploadFile stores a file and returns its metadata.
func (c *Client) UploadFile(ctx context.Context, file FilePart) (*api.File, error) {
	var out messageBody
	if err := c.doMultipart(ctx, "/api/files", nil, &file, &out); err != nil {
		return nil, err
	}
	return out.File, nil
}

// DownloadFile fetches a file by id.
func (c *Client) DownloadFile(ctx context.Context, id string) (*Download, error) {
	return c.download(ctx, "/api/files/"+url.PathEscape(id), nil)
}

// DownloadFileByName fetches the most recent file stored under filename.
func (c *Client) DownloadFileByName(ctx context.Context, filename string) (*Download, error) {
	return c.download(ctx, "/files/"+url.PathEscape(filename), nil)
}

// doMultipart streams fields and the file part through a pipe so large
// files are never buffered whole.
func (c *Client) doMultipart(ctx context.Context, path string, fields url.Values, file *FilePart, out interface{}) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, file))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, pr, mw.FormDataContentType())
	if err != nil {
		_ = pr.Close()
		return err
	}
	err = c.do(req, out)
	_ = pr.Close()
	return err
}

func writeMultipart(mw *multipart.Writer, fields url.Values, file *FilePart) error {
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				return err
			}
		}
	}
	if file != nil && file.Body != nil {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": "file", "filename": file.Filename}))
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return err
		}
	}
	return mw.Close()
}

// formFields and queryValues read the form tags the server binds with, so
// both sides stay in sync.
func formFields(v interface{}) url.Values {
	return tagValues(v, "form")
}

func queryValues(q api.ProjectQuery) url.Values {
	return tagValues(q, "form")
}

func tagValues(v interface{}, tag string) url.Values {
	values := url.Values{}
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := strings.Split(rt.Field(i).Tag.Get(tag), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		field := rv.Field(i)
		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				continue
			}
			field = field.Elem()
		}
		if field.Kind() != reflect.String || field.String() == "" {
			continue
		}
		values.Set(name, field.String())
	}
	return values
}
