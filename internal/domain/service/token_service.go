package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Values of Claims.Type. Only access tokens open the API; refresh tokens are
// accepted by /auth/refresh alone.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Role   string    `json:"role,omitempty"`
	Type   string    `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the storefront's signed session tokens.
type TokenService interface {
	// GenerateTokens signs an access token carrying role and a refresh token
	// without one.
	GenerateTokens(userID uuid.UUID, role string) (accessToken string, refreshToken string, err error)

	// ValidateToken rejects expired, tampered and wrongly signed tokens.
	ValidateToken(tokenString string) (*Claims, error)

	// HashToken is the digest stored in place of a raw refresh token.
	HashToken(token string) string

	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}
