package services

import (
	"context"
	"time"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
)

// UserSvcFacade exposes user lookup and credential management.
type UserSvcFacade interface {
	// GetUserByID retrieves a user by primary key.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// AuthenticateUser verifies email/password and returns the user on success.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// UpsertGoogleUser finds or creates a user for a verified Google identity.
	UpsertGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)

	// SetPassword replaces the user's password hash.
	SetPassword(ctx context.Context, userID, newPassword string) error

	// StoreRefreshToken persists the hash and expiry of a freshly issued
	// refresh token, rotating out any previous one.
	StoreRefreshToken(ctx context.Context, userID, refreshToken string, expiry time.Time) error

	// ClearRefreshToken revokes the user's refresh token on sign-out.
	ClearRefreshToken(ctx context.Context, userID string) error

	// ValidateRefreshToken checks a presented refresh token against the stored
	// hash and expiry and returns the owning user.
	ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error)
}
