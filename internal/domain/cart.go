package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID uuid.UUID
	Items   []CartItem
}

type CartItem struct {
	ProductID uuid.UUID
	Quantity  int

	CreatedAt time.Time
}
