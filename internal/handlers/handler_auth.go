package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/dto"
	"github.com/sbfleet/fleet_account_manager/internal/middleware"
	"github.com/sbfleet/fleet_account_manager/internal/platform/config"
)

const oauthStateCookieName = "oauth_state"

// AuthHandler handles authentication related requests: login, cookie-based
// refresh, logout, the password-recovery flow, and Google sign-in.
type AuthHandler struct {
	cfg            *config.Config
	userService    portssvc.UserSvcFacade
	tokenService   portssvc.TokenSvcFacade
	resetService   portssvc.PasswordResetSvcFacade
	googleOAuthSvc portssvc.GoogleOAuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		cfg:            cfg,
		userService:    services.User,
		tokenService:   services.Token,
		resetService:   services.PasswordReset,
		googleOAuthSvc: services.GoogleOAuth,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(cfg, services)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.GET("/google/login", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
	}
}

// issueSession generates the access and refresh tokens for the user, persists
// the refresh token hash, and sets the refresh cookie. The cookie value is
// "<userID>:<token>" so refresh can locate the user without a table scan.
func (h *AuthHandler) issueSession(c *gin.Context, user *domain.User) (dto.LoginResponse, error) {
	ctx := c.Request.Context()

	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	if err := h.userService.StoreRefreshToken(ctx, user.UserID, refreshToken, refreshExpiry); err != nil {
		return dto.LoginResponse{}, err
	}

	maxAge := int(time.Until(refreshExpiry).Seconds())
	c.SetCookie(h.cfg.RefreshTokenCookieName, user.UserID+":"+refreshToken, maxAge,
		h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)

	return dto.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   accessExpiry,
		User:        dto.ToUserResponse(user),
	}, nil
}

// clearRefreshCookie expires the refresh cookie on the client.
func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1,
		h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

// refreshCookieParts splits the refresh cookie into userID and token.
func refreshCookieParts(value string) (userID, token string, ok bool) {
	return strings.Cut(value, ":")
}

// Login godoc
// @Summary User login
// @Description Authenticates with email and password, returns an access token and sets the refresh cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err, "Failed to authenticate user")
		return
	}

	resp, err := h.issueSession(c, user)
	if err != nil {
		respondWithError(c, err, "Failed to issue session")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Rotates the refresh token from the HTTP-only cookie and returns a fresh access token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.RefreshResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token missing"})
		return
	}
	userID, token, ok := refreshCookieParts(cookie)
	if !ok {
		h.clearRefreshCookie(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Malformed refresh token"})
		return
	}

	user, err := h.userService.ValidateRefreshToken(c.Request.Context(), userID, token)
	if err != nil {
		h.clearRefreshCookie(c)
		respondWithError(c, err, "Failed to validate refresh token")
		return
	}

	// Rotation: every refresh issues and stores a brand-new token.
	resp, err := h.issueSession(c, user)
	if err != nil {
		respondWithError(c, err, "Failed to rotate session")
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt,
	})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the stored refresh token and clears the cookie.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err == nil {
		if userID, _, ok := refreshCookieParts(cookie); ok {
			if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
				respondWithError(c, err, "Failed to clear refresh token")
				return
			}
		}
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Queues a password reset email. Always answers 202 so the endpoint does not reveal which emails exist.
// @Tags auth
// @Accept json
// @Produce json
// @Param forgot body dto.ForgotPasswordRequest true "Account email"
// @Success 202 "Accepted"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondWithError(c, err, "Failed to process password reset request")
		return
	}

	c.Status(http.StatusAccepted)
}

// ResetPassword godoc
// @Summary Complete password reset
// @Description Consumes the emailed token and sets the new password. The token is single-use.
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.resetService.CompleteReset(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		respondWithError(c, err, "Failed to complete password reset")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen with a CSRF state cookie.
// @Tags auth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := h.googleOAuthSvc.GenerateStateString(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to generate OAuth state")
		return
	}

	// State cookie is short lived; it only has to survive the round trip.
	c.SetCookie(oauthStateCookieName, state, int((10 * time.Minute).Seconds()),
		"/api/v1/auth", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthSvc.GetLoginURL(c.Request.Context(), state))
}

// GoogleCallback godoc
// @Summary Complete Google sign-in
// @Description Verifies the state, exchanges the code, upserts the user, and returns a session.
// @Tags auth
// @Produce json
// @Param state query string true "CSRF state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "OAuth state mismatch"})
		return
	}
	c.SetCookie(oauthStateCookieName, "", -1, "/api/v1/auth", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	oauth2Token, err := h.googleOAuthSvc.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	payload, err := h.googleOAuthSvc.ValidateIDToken(ctx, idTokenString)
	if err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	info := domain.GoogleUserInfo{
		Email:         email,
		VerifiedEmail: emailVerified,
		Name:          name,
	}

	// Some Google accounts omit the profile claims from the ID token; the
	// userinfo endpoint carries them regardless of consent configuration.
	if info.Email == "" {
		fetched, err := h.googleOAuthSvc.GetUserInfo(ctx, oauth2Token)
		if err != nil {
			logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user info from Google"})
			return
		}
		info = *fetched
	}

	user, err := h.userService.UpsertGoogleUser(ctx, info)
	if err != nil {
		respondWithError(c, err, "Failed to upsert Google user")
		return
	}

	resp, err := h.issueSession(c, user)
	if err != nil {
		respondWithError(c, err, "Failed to issue session")
		return
	}

	c.JSON(http.StatusOK, resp)
}
