// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned for tokens that are not JWTs
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenInfo is what the storefront can learn from a backend token
type TokenInfo struct {
	Subject   string
	ExpiresAt *time.Time
}

// TokenInspector reads claims of tokens issued by the storefront backend.
// The backend owns the signing key, so signatures are not verified here;
// the backend still verifies every authenticated call.
type TokenInspector struct {
	parser *jwt.Parser
}

// NewTokenInspector creates a new TokenInspector
func NewTokenInspector() *TokenInspector {
	return &TokenInspector{
		parser: jwt.NewParser(),
	}
}

// Inspect extracts subject and expiry from a token
func (i *TokenInspector) Inspect(tokenString string) (TokenInfo, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		info.ExpiresAt = &exp
	}
	return info, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

// BearerHeader formats a token for the Authorization header
func BearerHeader(token string) string {
	return "Bearer " + token
}
