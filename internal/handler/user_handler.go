package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-projects-api/internal/dto"
	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/response"
)

type userService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, uid string) (*models.User, error)
	List(ctx context.Context, role string) ([]models.User, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.Profile, error)
}

// UserHandler handles user and profile endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// Create godoc
// @Summary Create user
// @Description Persist a user after identity-provider signup
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRequest true "Create user payload"
// @Success 201 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 500 {object} errors.Error
// @Router /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, response.Message{Message: "User created successfully", UserID: user.ID})
}

// Get godoc
// @Summary Get user
// @Description Fetch a user by identity-provider uid
// @Tags Users
// @Produce json
// @Param uid path string true "User uid"
// @Success 200 {object} models.User
// @Failure 404 {object} errors.Error
// @Router /api/users/{uid} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param role query string false "student or teacher"
// @Success 200 {array} models.User
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Replace school, filiere, year and matiere of a user
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 403 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /api/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if claims := identityFromContext(c); claims != nil {
		if req.UID == "" {
			req.UID = claims.UID()
		} else if req.UID != claims.UID() {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "cannot update another user's profile"))
			return
		}
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: "Profile updated successfully", Profile: profile})
}
