package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
)

type ProductRepository interface {
	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	ListStoreProducts(ctx context.Context, storeID uuid.UUID) ([]domain.Product, error)
}
