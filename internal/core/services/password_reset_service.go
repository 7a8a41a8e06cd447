package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portsrepo "github.com/sbfleet/fleet_account_manager/internal/core/ports/repositories"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/platform/config"
	"github.com/sbfleet/fleet_account_manager/internal/tasks"
	"github.com/sbfleet/fleet_account_manager/internal/utils"
)

// passwordResetService implements PasswordResetSvcFacade. Tokens live only in
// Redis (hashed, TTL'd); the email travels through the asynq queue.
type passwordResetService struct {
	BaseService
	cfg            *config.Config
	userService    portssvc.UserSvcFacade
	resetTokenRepo portsrepo.ResetTokenRepository
	enqueuer       tasks.Enqueuer
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(cfg *config.Config, userService portssvc.UserSvcFacade, resetTokenRepo portsrepo.ResetTokenRepository, enqueuer tasks.Enqueuer) portssvc.PasswordResetSvcFacade {
	return &passwordResetService{
		cfg:            cfg,
		userService:    userService,
		resetTokenRepo: resetTokenRepo,
		enqueuer:       enqueuer,
	}
}

var _ portssvc.PasswordResetSvcFacade = (*passwordResetService)(nil)

// RequestReset issues a reset token and queues the email. Unknown addresses
// succeed silently so the endpoint does not leak which emails exist.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Password reset requested for unknown email")
			return nil
		}
		s.LogError(ctx, err, "Failed to look up user for password reset")
		return err
	}

	rawToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.resetTokenRepo.StoreToken(ctx, utils.HashOpaqueToken(rawToken), user.UserID, s.cfg.ResetTokenTTL); err != nil {
		s.LogError(ctx, err, "Failed to store reset token", slog.String("user_id", user.UserID))
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendBaseURL, rawToken)
	payload := tasks.PasswordResetEmailPayload{
		Email:    user.Email,
		Name:     user.Name,
		ResetURL: resetURL,
	}
	if err := s.enqueuer.EnqueuePasswordResetEmail(ctx, payload); err != nil {
		s.LogError(ctx, err, "Failed to enqueue reset email", slog.String("user_id", user.UserID))
		return err
	}

	s.LogInfo(ctx, "Password reset email queued", slog.String("user_id", user.UserID))
	return nil
}

// CompleteReset consumes the token and sets the new password. Consuming first
// guarantees a link works at most once even if the password write fails. Any
// outstanding refresh token is revoked so old sessions cannot survive a reset.
func (s *passwordResetService) CompleteReset(ctx context.Context, token, newPassword string) (*domain.User, error) {
	userID, err := s.resetTokenRepo.ConsumeToken(ctx, utils.HashOpaqueToken(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrResetTokenInvalid
		}
		s.LogError(ctx, err, "Failed to consume reset token")
		return nil, err
	}

	if err := s.userService.SetPassword(ctx, userID, newPassword); err != nil {
		s.LogError(ctx, err, "Failed to set new password", slog.String("user_id", userID))
		return nil, err
	}

	if err := s.userService.ClearRefreshToken(ctx, userID); err != nil {
		// The password change already took effect; log and continue.
		s.LogWarn(ctx, "Failed to revoke refresh token after reset",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Password reset completed", slog.String("user_id", userID))
	return user, nil
}
