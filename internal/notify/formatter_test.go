package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/repository"
	"github.com/stretchr/testify/require"
)

type fakePickups struct {
	locs map[uuid.UUID]domain.PickupLocation
}

func (f *fakePickups) GetPickupLocation(_ context.Context, storeID uuid.UUID) (domain.PickupLocation, error) {
	loc, ok := f.locs[storeID]
	if !ok {
		return domain.PickupLocation{}, repository.ErrPickupNotFound
	}
	return loc, nil
}

func money(amount int64) domain.Money {
	return domain.NewMoney(decimal.NewFromInt(amount))
}

func sampleOrder(beanhouse, cleanly uuid.UUID) domain.Order {
	return domain.Order{
		ID:              uuid.New(),
		OrderNumber:     "SOMAH-000123",
		CustomerName:    "Mona Ali",
		CustomerPhone:   "+20100000000",
		DeliveryAddress: "12 Tahrir Street, Cairo",
		Lines: []domain.OrderLine{
			{
				ProductID: uuid.New(), ProductName: "Arabica Beans",
				StoreID: beanhouse, StoreName: "Beanhouse",
				Quantity: 2, UnitPrice: money(40),
			},
			{
				ProductID: uuid.New(), ProductName: "Olive Soap",
				StoreID: cleanly, StoreName: "Cleanly",
				Quantity: 1, UnitPrice: money(20),
			},
		},
		Subtotal:      money(100),
		DeliveryFee:   money(20),
		Total:         money(120),
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentCashOnDelivery,
		Notes:         "Leave at the door",
		CreatedAt:     time.Date(2026, time.March, 14, 15, 4, 0, 0, time.UTC),
	}
}

func TestFormatter_Render(t *testing.T) {
	beanhouse, cleanly := uuid.New(), uuid.New()

	f := NewFormatter(&fakePickups{locs: map[uuid.UUID]domain.PickupLocation{
		beanhouse: {
			StoreID:      beanhouse,
			LocationType: "shop",
			StreetNumber: "5",
			StreetName:   "Nile Ave",
			PlaceName:    "Beanhouse Roastery",
		},
	}})

	want := `🛒 ORDER SOMAH-000123

Customer: Mona Ali
Phone: +20100000000
Address: 12 Tahrir Street, Cairo

Beanhouse:
  2 x Arabica Beans — 40.00 EGP

Cleanly:
  1 x Olive Soap — 20.00 EGP

Subtotal: 100.00 EGP
Delivery fee: 20.00 EGP
Total: 120.00 EGP
After delivery fee: 100.00 EGP
Commission (5%): 5.00 EGP
Store payout: 95.00 EGP

STORE PICKUP DETAILS — Beanhouse
  Type: shop
  Street: 5 Nile Ave
  Place: Beanhouse Roastery

STORE PICKUP DETAILS — Cleanly
  No pickup address on file. Contact the store owner via store management.

Placed: Mar 14, 2026 3:04 PM
Payment: Cash on Delivery
Notes: Leave at the door
`

	got := f.Render(context.Background(), sampleOrder(beanhouse, cleanly), "")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered message mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatter_RenderDeterministic(t *testing.T) {
	beanhouse, cleanly := uuid.New(), uuid.New()
	f := NewFormatter(&fakePickups{})
	order := sampleOrder(beanhouse, cleanly)

	ctx := context.Background()
	first := f.Render(ctx, order, "Ahmed")
	for i := 0; i < 10; i++ {
		require.Equal(t, first, f.Render(ctx, order, "Ahmed"))
	}
}

func TestFormatter_GroupsByFirstAppearance(t *testing.T) {
	beanhouse, cleanly := uuid.New(), uuid.New()
	f := NewFormatter(&fakePickups{})

	order := sampleOrder(beanhouse, cleanly)
	// A third line for the first store, after the second store showed up.
	order.Lines = append(order.Lines, domain.OrderLine{
		ProductID: uuid.New(), ProductName: "Robusta Beans",
		StoreID: beanhouse, StoreName: "Beanhouse",
		Quantity: 1, UnitPrice: money(30),
	})

	got := f.Render(context.Background(), order, "")

	beanhouseAt := strings.Index(got, "Beanhouse:")
	cleanlyAt := strings.Index(got, "Cleanly:")
	require.Greater(t, cleanlyAt, beanhouseAt)

	// The late Beanhouse line lands in the Beanhouse group, above Cleanly.
	robustaAt := strings.Index(got, "1 x Robusta Beans")
	require.Greater(t, robustaAt, beanhouseAt)
	require.Less(t, robustaAt, cleanlyAt)

	// One pickup sub-entry per store, in group order.
	require.Equal(t, 2, strings.Count(got, "STORE PICKUP DETAILS"))
	require.Less(t,
		strings.Index(got, "STORE PICKUP DETAILS — Beanhouse"),
		strings.Index(got, "STORE PICKUP DETAILS — Cleanly"))
}

func TestFormatter_AssignedFooter(t *testing.T) {
	beanhouse, cleanly := uuid.New(), uuid.New()
	f := NewFormatter(&fakePickups{})
	order := sampleOrder(beanhouse, cleanly)

	ctx := context.Background()

	plain := f.Render(ctx, order, "")
	require.NotContains(t, plain, "Assigned to:")

	assigned := f.Render(ctx, order, "Ahmed")
	require.Contains(t, assigned, "\nAssigned to: Ahmed\n")
}

func TestFormatter_NoNotesLine(t *testing.T) {
	beanhouse, cleanly := uuid.New(), uuid.New()
	f := NewFormatter(&fakePickups{})
	order := sampleOrder(beanhouse, cleanly)
	order.Notes = ""

	got := f.Render(context.Background(), order, "")
	require.NotContains(t, got, "Notes:")
}
