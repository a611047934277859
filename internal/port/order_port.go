package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// InsertOrder persists the order, its lines, the initial status-history
	// row and a queued new-order notification, decrements product stock and
	// clears the owner's cart, all in one transaction.
	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	// UpdateOrderStatus records the change in the status history and, on a
	// transition to confirmed, queues an order-update notification.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	// AssignHandler claims the order for handler. It returns false without
	// error when the order is already claimed (first claim wins).
	AssignHandler(ctx context.Context, orderID uuid.UUID, handler string) (bool, error)
}
