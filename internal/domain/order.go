package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderNumberPrefix is the human-readable order number prefix, e.g. SOMAH-1A2B3C4D.
const OrderNumberPrefix = "SOMAH-"

// DefaultDeliveryFee is the flat delivery fee charged on every order.
var DefaultDeliveryFee = decimal.NewFromInt(20)

const PaymentCashOnDelivery = "cash_on_delivery"

type Order struct {
	ID              uuid.UUID   `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	UserID          uuid.UUID   `json:"userId"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Lines           []OrderLine `json:"lines"`
	Subtotal        Money       `json:"subtotal"`
	DeliveryFee     Money       `json:"deliveryFee"`
	Total           Money       `json:"total"`
	Status          OrderStatus `json:"status"`
	PaymentMethod   string      `json:"paymentMethod"`
	Notes           string      `json:"notes"`
	HandledBy       *string     `json:"handledBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderLine is a snapshot of one product/quantity entry at checkout time,
// with store attribution and both charged and original price.
type OrderLine struct {
	ProductID     uuid.UUID `json:"productId"`
	ProductName   string    `json:"productName"`
	StoreID       uuid.UUID `json:"storeId"`
	StoreName     string    `json:"storeName"`
	Quantity      int       `json:"quantity"`
	UnitPrice     Money     `json:"unitPrice"`
	OriginalPrice Money     `json:"originalPrice"`
	ImageURL      string    `json:"imageUrl"`
}

func (l OrderLine) LineTotal() Money {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
