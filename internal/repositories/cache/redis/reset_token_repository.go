package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	portsrepo "github.com/sbfleet/fleet_account_manager/internal/core/ports/repositories"
)

const resetTokenKeyPrefix = "pwdreset:"

// RedisResetTokenRepository keeps password-reset token hashes in Redis with a
// TTL. Expiry is enforced by Redis itself.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates the Redis-backed reset token repository.
func NewResetTokenRepository(client *redis.Client) portsrepo.ResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

var _ portsrepo.ResetTokenRepository = (*RedisResetTokenRepository)(nil)

// StoreToken saves the token hash with its TTL.
func (r *RedisResetTokenRepository) StoreToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetTokenKeyPrefix+tokenHash, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// ConsumeToken reads and deletes the token hash in one round trip (GETDEL),
// so concurrent reset attempts cannot both succeed.
func (r *RedisResetTokenRepository) ConsumeToken(ctx context.Context, tokenHash string) (string, error) {
	userID, err := r.client.GetDel(ctx, resetTokenKeyPrefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}
