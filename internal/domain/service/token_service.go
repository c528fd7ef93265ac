package service

import (
	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// TokenClaims is the validated content of an access token.
type TokenClaims struct {
	UserID uuid.UUID
	Role   entity.Role
}

// TokenService issues and validates access tokens.
type TokenService interface {
	// GenerateAccessToken issues a signed access token for the user.
	GenerateAccessToken(userID uuid.UUID, role entity.Role) (string, error)

	// ValidateToken parses and verifies a token, returning its claims.
	ValidateToken(token string) (*TokenClaims, error)
}
