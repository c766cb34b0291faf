package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-projects-api/internal/models"
)

const userColumns = `id, uid, email, role, name, password_hash, school, filiere, year, matiere, created_at, updated_at`

// UserRepository provides database access for platform members.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, uid, email, role, name, password_hash, created_at, updated_at) VALUES (:id, :uid, :email, :role, :name, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByUID returns the first user carrying the identity provider uid.
func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by uid: %w", err)
	}
	return &user, nil
}

// List returns every user, optionally restricted to one role.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if filter.Role != nil {
		query += ` WHERE role = $1`
		args = append(args, string(*filter.Role))
	}
	query += ` ORDER BY created_at DESC`

	users := make([]models.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateProfile replaces the academic profile fields and returns the stored
// row. sql.ErrNoRows is returned when no user has the uid.
func (r *UserRepository) UpdateProfile(ctx context.Context, uid string, profile models.Profile) (*models.User, error) {
	query := `UPDATE users SET school = $2, filiere = $3, year = $4, matiere = $5, updated_at = $6 WHERE uid = $1 RETURNING ` + userColumns
	var user models.User
	err := r.db.GetContext(ctx, &user, query, uid, profile.School, profile.Filiere, profile.Year, profile.Matiere, time.Now().UTC())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}
