package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portsrepo "github.com/sbfleet/fleet_account_manager/internal/core/ports/repositories"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/utils"
)

// userServiceImpl implements UserSvcFacade.
type userServiceImpl struct {
	BaseService
	userRepo portsrepo.UserRepository
}

// NewUserServiceImpl creates a new user service.
func NewUserServiceImpl(repo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userServiceImpl{userRepo: repo}
}

var _ portssvc.UserSvcFacade = (*userServiceImpl)(nil)

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, email)
}

// AuthenticateUser verifies email/password. Both unknown email and wrong
// password return ErrUnauthorized so callers cannot distinguish them.
func (s *userServiceImpl) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up user for authentication")
		return nil, err
	}

	if !utils.VerifyPassword(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// UpsertGoogleUser finds or provisions a user for a verified Google identity.
func (s *userServiceImpl) UpsertGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if !info.VerifiedEmail || info.Email == "" {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	newUser := domain.User{
		UserID:        uuid.NewString(),
		Email:         info.Email,
		Name:          info.Name,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to provision Google user", slog.String("email", info.Email))
		return nil, err
	}

	s.LogInfo(ctx, "Provisioned user from Google sign-in", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

func (s *userServiceImpl) SetPassword(ctx context.Context, userID, newPassword string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.LastUpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update password", slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "Password updated", slog.String("user_id", userID))
	return nil
}

// StoreRefreshToken persists the hash and expiry of a freshly issued refresh
// token, rotating out any previous one.
func (s *userServiceImpl) StoreRefreshToken(ctx context.Context, userID, refreshToken string, expiry time.Time) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	user.RefreshTokenHash = utils.HashOpaqueToken(refreshToken)
	user.RefreshTokenExpiryTime = &expiry
	user.LastUpdatedAt = time.Now()
	return s.userRepo.UpdateUser(ctx, *user)
}

// ClearRefreshToken revokes the stored refresh token on sign-out. Errors are
// returned to the caller, not swallowed.
func (s *userServiceImpl) ClearRefreshToken(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	user.RefreshTokenHash = ""
	user.RefreshTokenExpiryTime = nil
	user.LastUpdatedAt = time.Now()
	return s.userRepo.UpdateUser(ctx, *user)
}

// ValidateRefreshToken checks a presented refresh token against the stored
// hash and expiry.
func (s *userServiceImpl) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	if !utils.CompareOpaqueTokenHash(refreshToken, user.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}
