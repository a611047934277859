package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/somah-market/backend/internal/domain"
)

// commissionRate is the marketplace cut taken from the amount left after the
// flat delivery fee.
var commissionRate = decimal.New(5, -2)

const orderDateFormat = "Jan 2, 2006 3:04 PM"

// PickupFinder resolves a store's private pickup address.
type PickupFinder interface {
	GetPickupLocation(ctx context.Context, storeID uuid.UUID) (domain.PickupLocation, error)
}

// Formatter renders an order snapshot into the operations-channel
// announcement. Rendering is deterministic for a given order and handler
// name; pickup lookups that fail fall back to a generic line and never abort
// the rest of the message.
type Formatter struct {
	pickups PickupFinder
}

func NewFormatter(pickups PickupFinder) *Formatter {
	return &Formatter{pickups: pickups}
}

func (f *Formatter) Render(ctx context.Context, order domain.Order, handler string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛒 ORDER %s\n\n", order.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "Address: %s\n", order.DeliveryAddress)

	groups := groupLinesByStore(order.Lines)
	for _, g := range groups {
		fmt.Fprintf(&b, "\n%s:\n", g.name)
		for _, line := range g.lines {
			fmt.Fprintf(&b, "  %d x %s — %s\n", line.Quantity, line.ProductName, line.UnitPrice.String())
		}
	}

	afterFee := order.Total.Amount.Sub(domain.DefaultDeliveryFee).Round(2)
	commission := afterFee.Mul(commissionRate).Round(2)
	payout := afterFee.Sub(commission).Round(2)

	fmt.Fprintf(&b, "\nSubtotal: %s\n", order.Subtotal.String())
	fmt.Fprintf(&b, "Delivery fee: %s\n", order.DeliveryFee.String())
	fmt.Fprintf(&b, "Total: %s\n", order.Total.String())
	fmt.Fprintf(&b, "After delivery fee: %s\n", domain.NewMoney(afterFee).String())
	fmt.Fprintf(&b, "Commission (5%%): %s\n", domain.NewMoney(commission).String())
	fmt.Fprintf(&b, "Store payout: %s\n", domain.NewMoney(payout).String())

	for _, g := range groups {
		f.renderPickup(ctx, &b, g)
	}

	fmt.Fprintf(&b, "\nPlaced: %s\n", order.CreatedAt.Format(orderDateFormat))
	fmt.Fprintf(&b, "Payment: %s\n", paymentLabel(order.PaymentMethod))
	if order.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", order.Notes)
	}
	if handler != "" {
		fmt.Fprintf(&b, "\nAssigned to: %s\n", handler)
	}

	return b.String()
}

func (f *Formatter) renderPickup(ctx context.Context, b *strings.Builder, g storeGroup) {
	fmt.Fprintf(b, "\nSTORE PICKUP DETAILS — %s\n", g.name)

	loc, err := f.pickups.GetPickupLocation(ctx, g.storeID)
	if err != nil {
		b.WriteString("  No pickup address on file. Contact the store owner via store management.\n")
		return
	}

	if loc.LocationType != "" {
		fmt.Fprintf(b, "  Type: %s\n", loc.LocationType)
	}
	if loc.StreetNumber != "" || loc.StreetName != "" {
		fmt.Fprintf(b, "  Street: %s %s\n", loc.StreetNumber, loc.StreetName)
	}
	if loc.PlaceName != "" {
		fmt.Fprintf(b, "  Place: %s\n", loc.PlaceName)
	}
	if loc.Notes != "" {
		fmt.Fprintf(b, "  Notes: %s\n", loc.Notes)
	}
}

type storeGroup struct {
	storeID uuid.UUID
	name    string
	lines   []domain.OrderLine
}

// groupLinesByStore keeps stores in order of their first appearance in the
// order's line list.
func groupLinesByStore(lines []domain.OrderLine) []storeGroup {
	var groups []storeGroup

	index := make(map[uuid.UUID]int)
	for _, line := range lines {
		i, ok := index[line.StoreID]
		if !ok {
			i = len(groups)
			index[line.StoreID] = i
			groups = append(groups, storeGroup{storeID: line.StoreID, name: line.StoreName})
		}
		groups[i].lines = append(groups[i].lines, line)
	}

	return groups
}

func paymentLabel(method string) string {
	if method == domain.PaymentCashOnDelivery {
		return "Cash on Delivery"
	}
	return method
}
