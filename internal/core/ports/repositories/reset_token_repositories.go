package repositories

import (
	"context"
	"time"
)

// ResetTokenRepository stores single-use password-reset tokens. Only token
// hashes are stored, each with a TTL; consuming a token removes it atomically
// so a reset link can be used at most once.
type ResetTokenRepository interface {
	// StoreToken saves a token hash for the user with the given TTL.
	StoreToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error

	// ConsumeToken atomically reads and deletes a token hash, returning the
	// owning user ID. Unknown or expired hashes return apperrors.ErrNotFound.
	ConsumeToken(ctx context.Context, tokenHash string) (string, error)
}
