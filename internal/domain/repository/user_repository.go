package repository

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *entity.User) error

	// FindByID fetches a user by id. Returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail fetches a user by email. Returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update overwrites an existing user.
	Update(ctx context.Context, user *entity.User) error

	// ListByRole lists users holding the given role, newest first.
	ListByRole(ctx context.Context, role entity.Role, limit, offset int) ([]*entity.User, error)
}
