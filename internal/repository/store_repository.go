package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
)

type storeRepository struct {
	db querier
}

func NewStore(pool *pgxpool.Pool) port.StoreRepository {
	return &storeRepository{db: pool}
}

func (r *storeRepository) InsertStore(ctx context.Context, store domain.Store) (uuid.UUID, error) {
	if store.Name == "" {
		return uuid.Nil, errors.New("store name is empty")
	}

	var storeID uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO stores (owner_id, name, description) VALUES ($1, $2, $3) RETURNING id`,
		store.OwnerID, store.Name, store.Description).Scan(&storeID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert store: %w", err)
	}

	return storeID, nil
}

func (r *storeRepository) GetStore(ctx context.Context, storeID uuid.UUID) (domain.Store, error) {
	var s domain.Store

	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, description, created_at FROM stores WHERE id = $1`, storeID).
		Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, fmt.Errorf("select store: %w", ErrStoreNotFound)
		}
		return s, fmt.Errorf("select store: %w", err)
	}

	return s, nil
}

func (r *storeRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name, description, created_at FROM stores ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return stores, nil
}

func (r *storeRepository) GetPickupLocation(ctx context.Context, storeID uuid.UUID) (domain.PickupLocation, error) {
	var loc domain.PickupLocation

	err := r.db.QueryRow(ctx,
		`SELECT store_id, location_type, street_number, street_name, place_name, notes
		FROM store_pickup_locations WHERE store_id = $1`, storeID).
		Scan(&loc.StoreID, &loc.LocationType, &loc.StreetNumber, &loc.StreetName, &loc.PlaceName, &loc.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loc, fmt.Errorf("select pickup location: %w", ErrPickupNotFound)
		}
		return loc, fmt.Errorf("select pickup location: %w", err)
	}

	return loc, nil
}

func (r *storeRepository) UpsertPickupLocation(ctx context.Context, loc domain.PickupLocation) error {
	if loc.StoreID == uuid.Nil {
		return errors.New("storeID is empty")
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO store_pickup_locations (store_id, location_type, street_number, street_name, place_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (store_id) DO UPDATE SET
			location_type = EXCLUDED.location_type,
			street_number = EXCLUDED.street_number,
			street_name = EXCLUDED.street_name,
			place_name = EXCLUDED.place_name,
			notes = EXCLUDED.notes`,
		loc.StoreID, loc.LocationType, loc.StreetNumber, loc.StreetName, loc.PlaceName, loc.Notes)
	if err != nil {
		return fmt.Errorf("upsert pickup location: %w", err)
	}

	return nil
}
