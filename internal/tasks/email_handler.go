package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"
	"github.com/sbfleet/fleet_account_manager/internal/platform/config"
)

// PasswordResetEmailHandler sends queued password-reset emails over SMTP.
// When no SMTP host is configured (local development) it logs the reset link
// instead of sending.
type PasswordResetEmailHandler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewPasswordResetEmailHandler creates the handler.
func NewPasswordResetEmailHandler(cfg *config.Config, logger *slog.Logger) *PasswordResetEmailHandler {
	return &PasswordResetEmailHandler{cfg: cfg, logger: logger}
}

// Handle processes one password-reset email task.
func (h *PasswordResetEmailHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal password reset payload: %w", err)
	}

	if h.cfg.SMTPHost == "" {
		h.logger.Info("SMTP not configured, logging reset link instead",
			slog.String("email", payload.Email),
			slog.String("reset_url", payload.ResetURL))
		return nil
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Reset your Fleet Account Manager password\r\n\r\n"+
		"Hi %s,\r\n\r\nA password reset was requested for your account. "+
		"Open the link below to choose a new password. The link expires in 30 minutes.\r\n\r\n%s\r\n\r\n"+
		"If you did not request this, you can ignore this email.\r\n",
		h.cfg.SMTPFrom, payload.Email, payload.Name, payload.ResetURL)

	addr := h.cfg.SMTPHost + ":" + h.cfg.SMTPPort
	if err := smtp.SendMail(addr, nil, h.cfg.SMTPFrom, []string{payload.Email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send password reset email to %s: %w", payload.Email, err)
	}

	h.logger.Info("Password reset email sent", slog.String("email", payload.Email))
	return nil
}

// RegisterHandlers attaches all task handlers to the asynq mux.
func RegisterHandlers(mux *asynq.ServeMux, cfg *config.Config, logger *slog.Logger) {
	resetHandler := NewPasswordResetEmailHandler(cfg, logger)
	mux.HandleFunc(TypePasswordResetEmail, resetHandler.Handle)
}
