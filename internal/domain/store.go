package domain

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PickupLocation is a store's private physical address used by delivery
// staff to collect goods. It is never exposed to customers.
type PickupLocation struct {
	StoreID      uuid.UUID `json:"storeId"`
	LocationType string    `json:"locationType"`
	StreetNumber string    `json:"streetNumber"`
	StreetName   string    `json:"streetName"`
	PlaceName    string    `json:"placeName"`
	Notes        string    `json:"notes"`
}
