package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
)

type notificationRepository struct {
	db querier
}

func NewNotification(pool *pgxpool.Pool) port.NotificationRepository {
	return &notificationRepository{db: pool}
}

func (r *notificationRepository) FetchPending(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, kind, message, status, attempts, sent_at, created_at
		FROM notifications WHERE status = $1 ORDER BY created_at ASC LIMIT $2`,
		string(domain.NotificationPending), limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var records []domain.Notification
	for rows.Next() {
		var (
			n            domain.Notification
			kind, status string
		)
		if err := rows.Scan(&n.ID, &n.OrderID, &kind, &n.Message, &status, &n.Attempts, &n.SentAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		n.Kind = domain.NotificationKind(kind)
		n.Status = domain.NotificationStatus(status)
		records = append(records, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return records, nil
}

// MarkSent keeps the first sent_at on repeated calls, so a record is recorded
// as sent at most once.
func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("id is empty")
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE notifications SET status = $2, sent_at = COALESCE(sent_at, now()) WHERE id = $1`,
		id, string(domain.NotificationSent))
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("update notification: %w", ErrNotificationNotFound)
	}

	return nil
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, maxAttempts int) error {
	if id == uuid.Nil {
		return fmt.Errorf("id is empty")
	}
	if maxAttempts <= 0 {
		return fmt.Errorf("maxAttempts must be positive")
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE notifications
		SET attempts = attempts + 1,
			status = CASE WHEN attempts + 1 >= $2 THEN $3 ELSE status END
		WHERE id = $1 AND status = $4`,
		id, maxAttempts, string(domain.NotificationDead), string(domain.NotificationPending))
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("update notification: %w", ErrNotificationNotFound)
	}

	return nil
}
