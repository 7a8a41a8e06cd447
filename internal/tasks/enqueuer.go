package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer queues background tasks. Services depend on this interface so
// tests can substitute a fake.
type Enqueuer interface {
	EnqueuePasswordResetEmail(ctx context.Context, payload PasswordResetEmailPayload) error
}

// AsynqEnqueuer is the asynq-backed Enqueuer.
type AsynqEnqueuer struct {
	client *asynq.Client
}

// NewAsynqEnqueuer wraps an asynq client.
func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

var _ Enqueuer = (*AsynqEnqueuer)(nil)

// EnqueuePasswordResetEmail queues a password-reset email for delivery.
func (e *AsynqEnqueuer) EnqueuePasswordResetEmail(ctx context.Context, payload PasswordResetEmailPayload) error {
	task, err := NewPasswordResetEmailTask(payload)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue password reset email: %w", err)
	}
	return nil
}
