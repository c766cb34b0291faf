package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims are the claims carried by an identity-provider token. The
// subject is the user's uid.
type IdentityClaims struct {
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
	jwt.RegisteredClaims
}

// UID returns the uid the token was issued for.
func (c *IdentityClaims) UID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
