package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/pkg/config"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

func signHS256(t *testing.T, secret string, claims models.IdentityClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func identityClaims(sub string, role models.UserRole, issuer string) models.IdentityClaims {
	now := time.Now()
	return models.IdentityClaims{
		Email: sub + "@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestIdentityServiceDisabled(t *testing.T) {
	svc, err := NewIdentityService(config.IdentityConfig{})
	require.NoError(t, err)
	assert.False(t, svc.Enabled())
	_, err = svc.Verify("anything")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestIdentityServiceRequiresKey(t *testing.T) {
	_, err := NewIdentityService(config.IdentityConfig{Enabled: true})
	assert.Error(t, err)
}

func TestIdentityServiceHS256(t *testing.T) {
	svc, err := NewIdentityService(config.IdentityConfig{Enabled: true, Secret: "shh", Issuer: "campus-idp"})
	require.NoError(t, err)

	claims, err := svc.Verify(signHS256(t, "shh", identityClaims("u1", models.RoleTeacher, "campus-idp")))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID())
	assert.Equal(t, models.RoleTeacher, claims.Role)

	_, err = svc.Verify(signHS256(t, "wrong", identityClaims("u1", models.RoleTeacher, "campus-idp")))
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.Verify(signHS256(t, "shh", identityClaims("u1", models.RoleTeacher, "someone-else")))
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	expired := identityClaims("u1", models.RoleStudent, "campus-idp")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = svc.Verify(signHS256(t, "shh", expired))
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestIdentityServiceRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	svc, err := NewIdentityService(config.IdentityConfig{Enabled: true, PublicKey: pemKey})
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, identityClaims("u2", models.RoleStudent, "")).SignedString(key)
	require.NoError(t, err)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.UID())

	// HS256 is not accepted when only a public key is configured.
	_, err = svc.Verify(signHS256(t, "shh", identityClaims("u2", models.RoleStudent, "")))
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
