package models

import "github.com/noah-isme/campus-projects-api/pkg/api"

// UserRole represents the two roles a member of the platform can hold.
type UserRole = api.UserRole

const (
	RoleStudent = api.RoleStudent
	RoleTeacher = api.RoleTeacher
)

// User is a platform member keyed by the identity provider uid.
type User = api.User

// Profile holds the academic fields edited from the profile page.
type Profile = api.Profile

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role *UserRole
}
