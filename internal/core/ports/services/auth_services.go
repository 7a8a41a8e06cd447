package services

import (
	"context"
	"time"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade issues and validates session tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates an opaque refresh token and its expiry.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// PasswordResetSvcFacade owns the password-recovery flow: issuing single-use
// reset tokens and consuming them.
type PasswordResetSvcFacade interface {
	// RequestReset issues a reset token for the address and queues the email.
	// Unknown addresses are a silent success so the endpoint does not leak
	// which emails exist.
	RequestReset(ctx context.Context, email string) error

	// CompleteReset consumes the token and sets the new password. The token is
	// invalidated even before the password write is attempted.
	CompleteReset(ctx context.Context, token, newPassword string) (*domain.User, error)
}

// GoogleOAuthSvcFacade wraps the Google sign-in handshake.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates the CSRF state for the OAuth redirect.
	GenerateStateString(ctx context.Context) (string, error)

	// GetLoginURL returns the Google consent screen URL for the given state.
	GetLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForToken trades the authorization code for tokens.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// GetUserInfo fetches the signed-in user's profile.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)

	// ValidateIDToken verifies a Google ID token against our client ID.
	ValidateIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
