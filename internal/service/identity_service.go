package service

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/pkg/config"
	appErrors "github.com/noah-isme/campus-projects-api/pkg/errors"
)

// IdentityService verifies identity-provider tokens. Tokens signed with
// HS256 are checked against the shared secret, RS256 against the PEM key.
type IdentityService struct {
	enabled   bool
	secret    []byte
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

// NewIdentityService builds a verifier from configuration. When identity
// verification is disabled the returned service reports Enabled() == false.
func NewIdentityService(cfg config.IdentityConfig) (*IdentityService, error) {
	svc := &IdentityService{enabled: cfg.Enabled}
	if !cfg.Enabled {
		return svc, nil
	}

	var methods []string
	if cfg.Secret != "" {
		svc.secret = []byte(cfg.Secret)
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	if pem := strings.TrimSpace(cfg.PublicKey); pem != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(strings.ReplaceAll(pem, `\n`, "\n")))
		if err != nil {
			return nil, fmt.Errorf("parse identity public key: %w", err)
		}
		svc.publicKey = key
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	if len(methods) == 0 {
		return nil, errors.New("identity verification enabled without secret or public key")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods(methods)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	svc.parser = jwt.NewParser(opts...)
	return svc, nil
}

// Enabled reports whether write endpoints must carry an identity token.
func (s *IdentityService) Enabled() bool {
	return s != nil && s.enabled
}

// Verify parses the token and returns its claims.
func (s *IdentityService) Verify(tokenString string) (*models.IdentityClaims, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "identity verification disabled")
	}
	claims := &models.IdentityClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, s.keyFor)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	if !token.Valid || claims.Subject == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *IdentityService) keyFor(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if s.secret == nil {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	case *jwt.SigningMethodRSA:
		if s.publicKey == nil {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}
