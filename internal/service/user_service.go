package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	UpdateProfile(ctx context.Context, uid string, profile models.Profile) (*models.User, error)
}

// UserService handles signup persistence and profile management.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Create persists a user record for an identity-provider account.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	req.UID = strings.TrimSpace(req.UID)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "uid, email, role and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Store(err, "failed to hash password")
	}

	user := &models.User{
		UID:          req.UID,
		Email:        req.Email,
		Role:         models.UserRole(req.Role),
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.String("uid", user.UID), zap.Error(err))
		return nil, appErrors.Store(err, "failed to create user")
	}
	return user, nil
}

// Get returns the user with the given uid.
func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("user not found")
		}
		return nil, appErrors.Store(err, "failed to load user")
	}
	return user, nil
}

// List returns all users, or only those with role when it is non-empty.
func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	var filter models.UserFilter
	if role = strings.TrimSpace(role); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UpdateProfile replaces the academic profile of the user identified by uid.
func (s *UserService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "uid, school, filiere, year and matiere are required")
	}
	profile := models.Profile{School: req.School, Filiere: req.Filiere, Year: req.Year, Matiere: req.Matiere}
	if _, err := s.repo.UpdateProfile(ctx, req.UID, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("user not found")
		}
		return nil, appErrors.Store(err, "failed to update profile")
	}
	return &profile, nil
}
