package dto

import "github.com/noah-isme/campus-projects-api/pkg/api"

// CreateUserRequest is the signup payload.
type CreateUserRequest = api.CreateUserRequest

// UpdateProfileRequest replaces the academic profile of a user.
type UpdateProfileRequest = api.UpdateProfileRequest
