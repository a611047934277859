package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
)

type StoreRepository interface {
	InsertStore(ctx context.Context, store domain.Store) (uuid.UUID, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (domain.Store, error)
	ListStores(ctx context.Context) ([]domain.Store, error)

	GetPickupLocation(ctx context.Context, storeID uuid.UUID) (domain.PickupLocation, error)
	UpsertPickupLocation(ctx context.Context, loc domain.PickupLocation) error
}
