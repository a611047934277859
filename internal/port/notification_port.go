package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
)

type NotificationRepository interface {
	// FetchPending returns up to limit pending records, oldest first.
	FetchPending(ctx context.Context, limit int) ([]domain.Notification, error)

	// MarkSent is idempotent: a record already sent stays sent.
	MarkSent(ctx context.Context, id uuid.UUID) error

	// MarkFailed bumps the attempt counter and dead-letters the record once
	// it reaches maxAttempts.
	MarkFailed(ctx context.Context, id uuid.UUID, maxAttempts int) error
}
