package repository

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrStoreNotFound        = errors.New("store not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrPickupNotFound       = errors.New("pickup location not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
)
