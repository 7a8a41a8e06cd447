package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/dto"
	"github.com/sbfleet/fleet_account_manager/internal/handlers"
	"github.com/sbfleet/fleet_account_manager/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// --- Mock UserService ---
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
	return m.Called(ctx, userID, newPassword).Error(0)
}
func (m *MockUserService) StoreRefreshToken(ctx context.Context, userID, refreshToken string, expiry time.Time) error {
	return m.Called(ctx, userID, refreshToken, expiry).Error(0)
}
func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockUserService) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error) {
	args := m.Called(ctx, userID, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock PasswordResetService ---
type MockPasswordResetService struct {
	mock.Mock
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *MockPasswordResetService) CompleteReset(ctx context.Context, token, newPassword string) (*domain.User, error) {
	args := m.Called(ctx, token, newPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.PasswordResetSvcFacade = (*MockPasswordResetService)(nil)

// --- Mock GoogleOAuthService ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockGoogleOAuthService) GetLoginURL(ctx context.Context, state string) string {
	return m.Called(ctx, state).String(0)
}
func (m *MockGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}
func (m *MockGoogleOAuthService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoogleUserInfo), args.Error(1)
}
func (m *MockGoogleOAuthService) ValidateIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idtoken.Payload), args.Error(1)
}

var _ portssvc.GoogleOAuthSvcFacade = (*MockGoogleOAuthService)(nil)

// --- Test Suite Setup ---

type AuthHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockUsers  *MockUserService
	mockTokens *MockTokenService
	mockReset  *MockPasswordResetService
	mockOAuth  *MockGoogleOAuthService
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockUsers = new(MockUserService)
	suite.mockTokens = new(MockTokenService)
	suite.mockReset = new(MockPasswordResetService)
	suite.mockOAuth = new(MockGoogleOAuthService)

	cfg := &config.Config{
		JWTSecret:              testJWTSecret,
		IsProduction:           true,
		FrontendBaseURL:        "http://localhost:3000",
		RefreshTokenCookieName: "fam_refresh",
		RefreshTokenCookiePath: "/api/v1/auth",
	}

	services := &portssvc.ServiceContainer{
		Account:       new(MockAccountService),
		Dashboard:     new(MockDashboardService),
		Export:        new(MockExportService),
		User:          suite.mockUsers,
		Token:         suite.mockTokens,
		PasswordReset: suite.mockReset,
		GoogleOAuth:   suite.mockOAuth,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *AuthHandlerTestSuite) expectSessionIssued(user *domain.User) {
	suite.mockTokens.On("GenerateAccessToken", mock.Anything, user).
		Return("access-token", time.Now().Add(15*time.Minute), nil).Once()
	suite.mockTokens.On("GenerateRefreshToken", mock.Anything, user).
		Return("refresh-token", time.Now().Add(7*24*time.Hour), nil).Once()
	suite.mockUsers.On("StoreRefreshToken", mock.Anything, user.UserID, "refresh-token", mock.AnythingOfType("time.Time")).
		Return(nil).Once()
}

// refreshCookie digs the refresh cookie out of the response.
func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "fam_refresh" {
			return c
		}
	}
	return nil
}

// --- Test Cases ---

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	user := &domain.User{UserID: uuid.NewString(), Email: "admin@example.com", Name: "Admin"}
	suite.mockUsers.On("AuthenticateUser", mock.Anything, "admin@example.com", "hunter22").Return(user, nil).Once()
	suite.expectSessionIssued(user)

	body := strings.NewReader(`{"email":"admin@example.com","password":"hunter22"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("access-token", resp.AccessToken)
	suite.Equal("admin@example.com", resp.User.Email)

	cookie := refreshCookie(w)
	suite.Require().NotNil(cookie)
	suite.Equal(user.UserID+":refresh-token", cookie.Value)
	suite.True(cookie.HttpOnly)
	suite.mockUsers.AssertExpectations(suite.T())
	suite.mockTokens.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	suite.mockUsers.On("AuthenticateUser", mock.Anything, "admin@example.com", "wrong").
		Return(nil, apperrors.ErrUnauthorized).Once()

	body := strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTokens.AssertNotCalled(suite.T(), "GenerateAccessToken")
}

func (suite *AuthHandlerTestSuite) TestRefresh_MissingCookie() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockUsers.AssertNotCalled(suite.T(), "ValidateRefreshToken")
}

func (suite *AuthHandlerTestSuite) TestForgotPassword_AlwaysAccepted() {
	suite.mockReset.On("RequestReset", mock.Anything, "nobody@example.com").Return(nil).Once()

	body := strings.NewReader(`{"email":"nobody@example.com"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockReset.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) googleCallbackRequest(state string) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state="+state+"&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-123"})
	return req
}

func (suite *AuthHandlerTestSuite) TestGoogleCallback_StateMismatch() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.googleCallbackRequest("other-state"))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockOAuth.AssertNotCalled(suite.T(), "ExchangeCodeForToken")
}

func (suite *AuthHandlerTestSuite) TestGoogleCallback_UsesIDTokenClaims() {
	oauth2Token := (&oauth2.Token{AccessToken: "google-access"}).
		WithExtra(map[string]interface{}{"id_token": "signed-id-token"})
	payload := &idtoken.Payload{Claims: map[string]interface{}{
		"email":          "admin@example.com",
		"name":           "Admin",
		"email_verified": true,
	}}
	user := &domain.User{UserID: uuid.NewString(), Email: "admin@example.com", Name: "Admin"}

	suite.mockOAuth.On("ExchangeCodeForToken", mock.Anything, "auth-code").Return(oauth2Token, nil).Once()
	suite.mockOAuth.On("ValidateIDToken", mock.Anything, "signed-id-token").Return(payload, nil).Once()
	suite.mockUsers.On("UpsertGoogleUser", mock.Anything, domain.GoogleUserInfo{
		Email:         "admin@example.com",
		VerifiedEmail: true,
		Name:          "Admin",
	}).Return(user, nil).Once()
	suite.expectSessionIssued(user)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.googleCallbackRequest("state-123"))

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.mockOAuth.AssertNotCalled(suite.T(), "GetUserInfo")
	suite.mockOAuth.AssertExpectations(suite.T())
	suite.mockUsers.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestGoogleCallback_FallsBackToUserInfoEndpoint() {
	// An ID token without profile claims must not produce an empty-email
	// upsert; the handler fetches the profile from the userinfo endpoint.
	oauth2Token := (&oauth2.Token{AccessToken: "google-access"}).
		WithExtra(map[string]interface{}{"id_token": "signed-id-token"})
	payload := &idtoken.Payload{Claims: map[string]interface{}{}}
	info := &domain.GoogleUserInfo{
		Email:         "admin@example.com",
		VerifiedEmail: true,
		Name:          "Admin",
	}
	user := &domain.User{UserID: uuid.NewString(), Email: "admin@example.com", Name: "Admin"}

	suite.mockOAuth.On("ExchangeCodeForToken", mock.Anything, "auth-code").Return(oauth2Token, nil).Once()
	suite.mockOAuth.On("ValidateIDToken", mock.Anything, "signed-id-token").Return(payload, nil).Once()
	suite.mockOAuth.On("GetUserInfo", mock.Anything, oauth2Token).Return(info, nil).Once()
	suite.mockUsers.On("UpsertGoogleUser", mock.Anything, *info).Return(user, nil).Once()
	suite.expectSessionIssued(user)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.googleCallbackRequest("state-123"))

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.mockOAuth.AssertExpectations(suite.T())
	suite.mockUsers.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestGoogleCallback_UserInfoFailureIsServerError() {
	oauth2Token := (&oauth2.Token{AccessToken: "google-access"}).
		WithExtra(map[string]interface{}{"id_token": "signed-id-token"})
	payload := &idtoken.Payload{Claims: map[string]interface{}{}}

	suite.mockOAuth.On("ExchangeCodeForToken", mock.Anything, "auth-code").Return(oauth2Token, nil).Once()
	suite.mockOAuth.On("ValidateIDToken", mock.Anything, "signed-id-token").Return(payload, nil).Once()
	suite.mockOAuth.On("GetUserInfo", mock.Anything, oauth2Token).
		Return(nil, apperrors.ErrUnauthorized).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.googleCallbackRequest("state-123"))

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.mockUsers.AssertNotCalled(suite.T(), "UpsertGoogleUser")
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
