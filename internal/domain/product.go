package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id"`
	StoreID       uuid.UUID `json:"storeId"`
	Name          string    `json:"name"`
	Price         Money     `json:"price"`
	OriginalPrice Money     `json:"originalPrice"`
	Stock         int       `json:"stock"`
	ImageURL      string    `json:"imageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}
