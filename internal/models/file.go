package models

import "github.com/noah-isme/campus-projects-api/pkg/api"

// File is the metadata of an uploaded blob.
type File = api.File
