package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/response"
)

// RequireRoles only admits callers whose verified role is in roles. It must
// run after RequireIdentity and is a no-op when verification is disabled.
func RequireRoles(verifier TokenVerifier, roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if verifier == nil || !verifier.Enabled() {
			c.Next()
			return
		}
		claims := IdentityFromContext(c)
		if claims == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(claims.Role)+" may not perform this action"))
			return
		}
		c.Next()
	}
}
