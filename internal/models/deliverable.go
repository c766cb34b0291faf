package models

import "github.com/noah-isme/campus-projects-api/pkg/api"

// Deliverable is a submission artifact attached to a project.
type Deliverable = api.Deliverable
