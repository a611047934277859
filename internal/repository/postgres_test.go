package repository_test

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
	"github.com/somah-market/backend/internal/repository"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("somah"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

func newTestPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := repository.InitSchema(ctx, pool); err != nil {
		return nil, fmt.Errorf("repository.InitSchema: %w", err)
	}

	return pool, nil
}

// seeder creates the user/store/product rows orders depend on.
type seeder struct {
	users    port.UserRepository
	stores   port.StoreRepository
	products port.ProductRepository
}

func newSeeder(pool *pgxpool.Pool) *seeder {
	return &seeder{
		users:    repository.NewUser(pool),
		stores:   repository.NewStore(pool),
		products: repository.NewProduct(pool),
	}
}

func (s *seeder) user(ctx context.Context) (uuid.UUID, error) {
	return s.users.InsertUser(ctx, domain.User{
		Name:         gofakeit.Name(),
		Email:        uuid.NewString() + "@" + gofakeit.DomainName(),
		Phone:        gofakeit.Phone(),
		PasswordHash: gofakeit.UUID(),
		Role:         domain.RoleCustomer,
	})
}

// product inserts a fresh store owned by ownerID and one product in it.
func (s *seeder) product(ctx context.Context, ownerID uuid.UUID, price int64, stock int) (domain.Product, domain.Store, error) {
	var p domain.Product

	store := domain.Store{
		OwnerID:     ownerID,
		Name:        gofakeit.Company(),
		Description: gofakeit.Sentence(5),
	}

	storeID, err := s.stores.InsertStore(ctx, store)
	if err != nil {
		return p, store, fmt.Errorf("stores.InsertStore: %w", err)
	}
	store.ID = storeID

	p = domain.Product{
		StoreID:       storeID,
		Name:          gofakeit.ProductName(),
		Price:         domain.NewMoney(decimal.NewFromInt(price)),
		OriginalPrice: domain.NewMoney(decimal.NewFromInt(price)),
		Stock:         stock,
		ImageURL:      gofakeit.URL(),
	}

	p.ID, err = s.products.InsertProduct(ctx, p)
	if err != nil {
		return p, store, fmt.Errorf("products.InsertProduct: %w", err)
	}

	return p, store, nil
}

func buildOrder(userID uuid.UUID, storeNames map[uuid.UUID]string, products ...domain.Product) domain.Order {
	subtotal := decimal.Zero

	var lines []domain.OrderLine
	for _, p := range products {
		qty := gofakeit.Number(1, 3)
		line := domain.OrderLine{
			ProductID:     p.ID,
			ProductName:   p.Name,
			StoreID:       p.StoreID,
			StoreName:     storeNames[p.StoreID],
			Quantity:      qty,
			UnitPrice:     p.Price,
			OriginalPrice: p.OriginalPrice,
			ImageURL:      p.ImageURL,
		}
		subtotal = subtotal.Add(line.LineTotal().Amount)
		lines = append(lines, line)
	}

	return domain.Order{
		OrderNumber:     fmt.Sprintf("SOMAH-%08X", gofakeit.Uint32()),
		UserID:          userID,
		CustomerName:    gofakeit.Name(),
		CustomerPhone:   gofakeit.Phone(),
		DeliveryAddress: gofakeit.Street() + ", " + gofakeit.City(),
		Lines:           lines,
		Subtotal:        domain.NewMoney(subtotal),
		DeliveryFee:     domain.NewMoney(domain.DefaultDeliveryFee),
		Total:           domain.NewMoney(subtotal.Add(domain.DefaultDeliveryFee)),
		Status:          domain.OrderStatusPending,
		PaymentMethod:   domain.PaymentCashOnDelivery,
		Notes:           gofakeit.Sentence(4),
	}
}

// moneyComparer compares decimal values, not their representations, so
// "100" and "100.00" read back from NUMERIC columns are equal.
var moneyComparer = cmp.Comparer(func(x, y domain.Money) bool {
	return x.Amount.Equal(y.Amount) && x.Currency.String() == y.Currency.String()
})
