package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-projects-api/internal/middleware"
	"github.com/noah-isme/campus-projects-api/internal/models"
)

func identityFromContext(c *gin.Context) *models.IdentityClaims {
	return middleware.IdentityFromContext(c)
}
