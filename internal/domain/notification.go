package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationNewOrder    NotificationKind = "new_order"
	NotificationOrderUpdate NotificationKind = "order_update"
)

type NotificationStatus string

// A record starts pending, becomes sent after a successful delivery, or dead
// once the attempt cap is reached. Records are never deleted.
const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationDead    NotificationStatus = "dead"
)

// Notification is a queued outbound announcement tied to one order and one
// triggering event kind.
type Notification struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Kind     NotificationKind
	Message  string
	Status   NotificationStatus
	Attempts int
	SentAt   *time.Time

	CreatedAt time.Time
}
