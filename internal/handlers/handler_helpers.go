package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/middleware"
)

// ErrorResponse is the generic error payload for all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps service-layer sentinel errors to HTTP status codes.
// Unrecognized errors are logged and surfaced as 500 with a generic message.
func respondWithError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Session expired, please log in again"})
	case errors.Is(err, apperrors.ErrResetTokenInvalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Reset link is invalid or has expired"})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
