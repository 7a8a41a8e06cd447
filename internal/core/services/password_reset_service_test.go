package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	"github.com/sbfleet/fleet_account_manager/internal/core/services"
	"github.com/sbfleet/fleet_account_manager/internal/platform/config"
	"github.com/sbfleet/fleet_account_manager/internal/tasks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserService is a mock type for the UserSvcFacade interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpsertGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) SetPassword(ctx context.Context, userID, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *MockUserService) StoreRefreshToken(ctx context.Context, userID, refreshToken string, expiry time.Time) error {
	args := m.Called(ctx, userID, refreshToken, expiry)
	return args.Error(0)
}

func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error) {
	args := m.Called(ctx, userID, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockResetTokenRepository is a mock type for the ResetTokenRepository interface
type MockResetTokenRepository struct {
	mock.Mock
}

func (m *MockResetTokenRepository) StoreToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenHash, userID, ttl)
	return args.Error(0)
}

func (m *MockResetTokenRepository) ConsumeToken(ctx context.Context, tokenHash string) (string, error) {
	args := m.Called(ctx, tokenHash)
	return args.String(0), args.Error(1)
}

// MockEnqueuer is a mock type for the tasks.Enqueuer interface
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueuePasswordResetEmail(ctx context.Context, payload tasks.PasswordResetEmailPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// --- Test Suite Setup ---

type PasswordResetServiceTestSuite struct {
	suite.Suite
	mockUsers    *MockUserService
	mockTokens   *MockResetTokenRepository
	mockEnqueuer *MockEnqueuer
	cfg          *config.Config
}

func (suite *PasswordResetServiceTestSuite) SetupTest() {
	suite.mockUsers = new(MockUserService)
	suite.mockTokens = new(MockResetTokenRepository)
	suite.mockEnqueuer = new(MockEnqueuer)
	suite.cfg = &config.Config{
		ResetTokenTTL:   30 * time.Minute,
		FrontendBaseURL: "http://localhost:3000",
	}
}

// --- Test Cases ---

func (suite *PasswordResetServiceTestSuite) TestRequestReset_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "admin@sbfleet.com", Name: "Admin"}

	suite.mockUsers.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
	suite.mockTokens.On("StoreToken", ctx, mock.AnythingOfType("string"), user.UserID, 30*time.Minute).Return(nil).Once()
	suite.mockEnqueuer.On("EnqueuePasswordResetEmail", ctx, mock.MatchedBy(func(p tasks.PasswordResetEmailPayload) bool {
		return p.Email == user.Email && p.ResetURL != "" && p.Name == "Admin"
	})).Return(nil).Once()

	svc := services.NewPasswordResetService(suite.cfg, suite.mockUsers, suite.mockTokens, suite.mockEnqueuer)
	err := svc.RequestReset(ctx, user.Email)

	suite.Require().NoError(err)
	suite.mockUsers.AssertExpectations(suite.T())
	suite.mockTokens.AssertExpectations(suite.T())
	suite.mockEnqueuer.AssertExpectations(suite.T())
}

func (suite *PasswordResetServiceTestSuite) TestRequestReset_UnknownEmailIsSilentSuccess() {
	ctx := context.Background()

	suite.mockUsers.On("GetUserByEmail", ctx, "nobody@sbfleet.com").Return(nil, apperrors.ErrNotFound).Once()

	svc := services.NewPasswordResetService(suite.cfg, suite.mockUsers, suite.mockTokens, suite.mockEnqueuer)
	err := svc.RequestReset(ctx, "nobody@sbfleet.com")

	suite.Require().NoError(err)
	suite.mockTokens.AssertNotCalled(suite.T(), "StoreToken")
	suite.mockEnqueuer.AssertNotCalled(suite.T(), "EnqueuePasswordResetEmail")
}

func (suite *PasswordResetServiceTestSuite) TestCompleteReset_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, Email: "admin@sbfleet.com"}

	suite.mockTokens.On("ConsumeToken", ctx, mock.AnythingOfType("string")).Return(userID, nil).Once()
	suite.mockUsers.On("SetPassword", ctx, userID, "new-password-123").Return(nil).Once()
	suite.mockUsers.On("ClearRefreshToken", ctx, userID).Return(nil).Once()
	suite.mockUsers.On("GetUserByID", ctx, userID).Return(user, nil).Once()

	svc := services.NewPasswordResetService(suite.cfg, suite.mockUsers, suite.mockTokens, suite.mockEnqueuer)
	got, err := svc.CompleteReset(ctx, "raw-token", "new-password-123")

	suite.Require().NoError(err)
	suite.Equal(userID, got.UserID)
	suite.mockUsers.AssertExpectations(suite.T())
	suite.mockTokens.AssertExpectations(suite.T())
}

func (suite *PasswordResetServiceTestSuite) TestCompleteReset_InvalidToken() {
	ctx := context.Background()

	suite.mockTokens.On("ConsumeToken", ctx, mock.AnythingOfType("string")).Return("", apperrors.ErrNotFound).Once()

	svc := services.NewPasswordResetService(suite.cfg, suite.mockUsers, suite.mockTokens, suite.mockEnqueuer)
	_, err := svc.CompleteReset(ctx, "stale-token", "new-password-123")

	suite.ErrorIs(err, apperrors.ErrResetTokenInvalid)
	suite.mockUsers.AssertNotCalled(suite.T(), "SetPassword")
}

func TestPasswordResetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordResetServiceTestSuite))
}
