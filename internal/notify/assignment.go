package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/somah-market/backend/internal/port"
)

// ErrAlreadyAssigned is returned when a claim loses to an earlier one.
var ErrAlreadyAssigned = errors.New("order already assigned")

// Assigner processes claim interactions. The winning claim is persisted on
// the order row, so "who handles order X" can be queried outside the chat.
type Assigner struct {
	orders    port.OrderRepository
	formatter *Formatter
}

func NewAssigner(orders port.OrderRepository, formatter *Formatter) *Assigner {
	return &Assigner{orders: orders, formatter: formatter}
}

// Claim assigns the order to handler and returns the re-rendered message
// text. The order is re-fetched fresh so the edited message never shows
// stale figures.
func (a *Assigner) Claim(ctx context.Context, orderID uuid.UUID, handler string) (string, error) {
	claimed, err := a.orders.AssignHandler(ctx, orderID, handler)
	if err != nil {
		return "", fmt.Errorf("orders.AssignHandler: %w", err)
	}
	if !claimed {
		return "", ErrAlreadyAssigned
	}

	order, err := a.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("orders.GetOrder: %w", err)
	}

	return a.formatter.Render(ctx, order, handler), nil
}

// Assigned returns the order's current rendering and the handler holding it,
// empty when unassigned. Lost claims use it to bring the chat message in line
// with the persisted winner, even when the winning claim's own edit never
// happened (a fetch failure right after the claim was stored).
func (a *Assigner) Assigned(ctx context.Context, orderID uuid.UUID) (string, string, error) {
	order, err := a.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", "", fmt.Errorf("orders.GetOrder: %w", err)
	}

	handler := lo.FromPtr(order.HandledBy)

	return a.formatter.Render(ctx, order, handler), handler, nil
}
