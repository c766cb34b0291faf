package dto

import "github.com/noah-isme/campus-projects-api/pkg/api"

// CreateDeliverableRequest attaches a deliverable to a project.
type CreateDeliverableRequest = api.CreateDeliverableRequest
