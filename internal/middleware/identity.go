package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-projects-api/internal/models"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
	"github.com/noah-isme/campus-projects-api/pkg/response"
)

// ContextIdentityKey is the gin context key storing verified identity claims.
const ContextIdentityKey = "identity"

// TokenVerifier validates identity-provider tokens.
type TokenVerifier interface {
	Enabled() bool
	Verify(token string) (*models.IdentityClaims, error)
}

// RequireIdentity rejects requests without a valid bearer token. It lets
// everything through when verification is disabled.
func RequireIdentity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil || !verifier.Enabled() {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or invalid authorization header"))
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextIdentityKey, claims)
		c.Next()
	}
}

// OptionalIdentity attaches claims when a valid token is present but never blocks.
func OptionalIdentity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil || !verifier.Enabled() {
			c.Next()
			return
		}
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := verifier.Verify(token); err == nil {
				c.Set(ContextIdentityKey, claims)
			}
		}
		c.Next()
	}
}

// IdentityFromContext returns the verified claims attached to the request.
func IdentityFromContext(c *gin.Context) *models.IdentityClaims {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.IdentityClaims)
	return claims
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
