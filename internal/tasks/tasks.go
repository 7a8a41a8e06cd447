package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypePasswordResetEmail is the asynq task type for password-reset emails.
const TypePasswordResetEmail = "email:password_reset"

// PasswordResetEmailPayload carries everything the worker needs to send the
// reset email. The raw token never touches the database; it only lives in
// Redis (hashed) and in this queue payload.
type PasswordResetEmailPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	ResetURL string `json:"resetURL"`
}

// NewPasswordResetEmailTask builds the queue task for a reset email.
func NewPasswordResetEmailTask(payload PasswordResetEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal password reset payload: %w", err)
	}
	return asynq.NewTask(TypePasswordResetEmail, data, asynq.MaxRetry(3), asynq.Queue("default")), nil
}
