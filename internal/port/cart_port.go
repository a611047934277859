package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID uuid.UUID) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID uuid.UUID, item domain.CartItem) error
	DeleteItem(ctx context.Context, ownerID uuid.UUID, productID uuid.UUID) (bool, error)
}
