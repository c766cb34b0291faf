package dto

import "github.com/noah-isme/campus-projects-api/pkg/api"

// CreateProjectRequest binds from JSON or multipart form fields.
type CreateProjectRequest = api.CreateProjectRequest

// ProjectQuery captures list/export query parameters.
type ProjectQuery = api.ProjectQuery

// UpdateProjectStatusRequest sets a new free-text status.
type UpdateProjectStatusRequest = api.UpdateProjectStatusRequest
