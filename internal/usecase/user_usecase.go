// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role

	// Optional role profile supplied at registration.
	ArtisanProfile    *entity.ArtisanProfile
	InvestorProfile   *entity.InvestorProfile
	AmbassadorProfile *entity.AmbassadorProfile
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput defines the mutable profile fields. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	Name              *string
	ArtisanProfile    *entity.ArtisanProfile
	InvestorProfile   *entity.InvestorProfile
	AmbassadorProfile *entity.AmbassadorProfile
	Notification      *entity.NotificationSettings
	Privacy           *entity.PrivacySettings

	// FCMToken registers (or clears, when empty) a push device token.
	FCMToken *string
}

// --- Output DTOs ---

// AuthOutput returns the account and its access token after registration or
// login.
type AuthOutput struct {
	AccessToken string
	User        *entity.User
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	ListArtisans(ctx context.Context, limit, offset int) ([]*entity.User, error)
	GetArtisan(ctx context.Context, artisanID uuid.UUID) (*entity.User, error)
}
