package repositories

import (
	"context"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
)

// UserRepository defines persistence operations for application users.
type UserRepository interface {
	// FindUserByID retrieves a user by primary key.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email (case-insensitive match).
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser replaces the mutable fields of an existing user, including
	// password hash and refresh token state.
	UpdateUser(ctx context.Context, user domain.User) error
}
