package api

import "time"

// UserRole represents the two roles a member of the platform can hold.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is a platform member keyed by the identity provider uid.
type User struct {
	ID           string    `db:"id" json:"id"`
	UID          string    `db:"uid" json:"uid"`
	Email        string    `db:"email" json:"email"`
	Role         UserRole  `db:"role" json:"role"`
	Name         *string   `db:"name" json:"name,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	School       *string   `db:"school" json:"school,omitempty"`
	Filiere      *string   `db:"filiere" json:"filiere,omitempty"`
	Year         *string   `db:"year" json:"year,omitempty"`
	Matiere      *string   `db:"matiere" json:"matiere,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Profile holds the academic fields edited from the profile page.
type Profile struct {
	School  string `db:"school" json:"school"`
	Filiere string `db:"filiere" json:"filiere"`
	Year    string `db:"year" json:"year"`
	Matiere string `db:"matiere" json:"matiere"`
}

// CreateUserRequest is the signup payload persisted after the identity
// provider has issued a uid.
type CreateUserRequest struct {
	UID      string  `json:"uid" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Role     string  `json:"role" validate:"required,oneof=student teacher"`
	Name     *string `json:"name"`
	Password string  `json:"password" validate:"required"`
}

// UpdateProfileRequest replaces the academic profile of a user.
type UpdateProfileRequest struct {
	UID     string `json:"uid" validate:"required"`
	School  string `json:"school" validate:"required"`
	Filiere string `json:"filiere" validate:"required"`
	Year    string `json:"year" validate:"required"`
	Matiere string `json:"matiere" validate:"required"`
}
