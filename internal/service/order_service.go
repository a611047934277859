package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type OrderService struct {
	orders   port.OrderRepository
	carts    port.CartRepository
	products port.ProductRepository
	stores   port.StoreRepository
	logger   *slog.Logger
}

func NewOrder(orders port.OrderRepository, carts port.CartRepository,
	products port.ProductRepository, stores port.StoreRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		stores:   stores,
		logger:   logger,
	}
}

type CheckoutRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes"`
}

func (r CheckoutRequest) Validate() error {
	if n := len(strings.TrimSpace(r.CustomerName)); n < 1 || n > 100 {
		return errors.New("customer name must be between 1 and 100 characters")
	}
	if len(strings.TrimSpace(r.CustomerPhone)) < 5 {
		return errors.New("customer phone is required")
	}
	if n := len(strings.TrimSpace(r.DeliveryAddress)); n < 10 || n > 200 {
		return errors.New("delivery address must be between 10 and 200 characters")
	}
	if len(r.Notes) > 500 {
		return errors.New("notes must be at most 500 characters")
	}
	return nil
}

// Checkout snapshots the user's cart into an order. Stock decrement, cart
// clearing and the queued new-order notification happen inside the insert
// transaction.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (domain.Order, error) {
	var o domain.Order

	if err := req.Validate(); err != nil {
		return o, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return o, fmt.Errorf("carts.GetCart: %w", err)
	}
	if len(cart.Items) == 0 {
		return o, ErrEmptyCart
	}

	storeNames := make(map[uuid.UUID]string)

	subtotal := decimal.Zero
	lines := make([]domain.OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return o, fmt.Errorf("products.GetProduct[%s]: %w", item.ProductID, err)
		}

		storeName, ok := storeNames[product.StoreID]
		if !ok {
			store, err := s.stores.GetStore(ctx, product.StoreID)
			if err != nil {
				return o, fmt.Errorf("stores.GetStore[%s]: %w", product.StoreID, err)
			}
			storeName = store.Name
			storeNames[product.StoreID] = storeName
		}

		line := domain.OrderLine{
			ProductID:     product.ID,
			ProductName:   product.Name,
			StoreID:       product.StoreID,
			StoreName:     storeName,
			Quantity:      item.Quantity,
			UnitPrice:     product.Price,
			OriginalPrice: product.OriginalPrice,
			ImageURL:      product.ImageURL,
		}
		subtotal = subtotal.Add(line.LineTotal().Amount)
		lines = append(lines, line)
	}

	order := domain.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		Lines:           lines,
		Subtotal:        domain.NewMoney(subtotal),
		DeliveryFee:     domain.NewMoney(domain.DefaultDeliveryFee),
		Total:           domain.NewMoney(subtotal.Add(domain.DefaultDeliveryFee)),
		Status:          domain.OrderStatusPending,
		PaymentMethod:   domain.PaymentCashOnDelivery,
		Notes:           req.Notes,
	}

	orderID, err := s.orders.InsertOrder(ctx, order)
	if err != nil {
		return o, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	placed, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	s.logger.Info("order placed", "order", placed.OrderNumber, "total", placed.Total.String())

	return placed, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", order.Status, next, ErrInvalidTransition)
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	s.logger.Info("order status updated", "order", order.OrderNumber, "status", string(next))

	return nil
}

// newOrderNumber returns the prefix followed by eight uppercase hex
// characters, e.g. SOMAH-4F2A91C3. Uniqueness is enforced by the database.
func newOrderNumber() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return domain.OrderNumberPrefix + strings.ToUpper(hex.EncodeToString(b))
}
