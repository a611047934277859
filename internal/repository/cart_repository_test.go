package repository_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
	"github.com/somah-market/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
)

type cartRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.CartRepository
	seed      *seeder
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = newTestPool(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewCart(suite.pool)
	suite.seed = newSeeder(suite.pool)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *cartRepositorySuite) newProduct() domain.Product {
	ctx := suite.T().Context()

	userID, err := suite.seed.user(ctx)
	suite.Require().NoError(err)

	product, _, err := suite.seed.product(ctx, userID, 40, 100)
	suite.Require().NoError(err)

	return product
}

func (suite *cartRepositorySuite) TestAddItem() {
	t := suite.T()
	ctx := t.Context()

	ownerID := uuid.New()
	product := suite.newProduct()

	err := suite.repo.AddItem(ctx, ownerID, domain.CartItem{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	actualCart, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)

	expectedCart := domain.Cart{
		OwnerID: ownerID,
		Items:   []domain.CartItem{{ProductID: product.ID, Quantity: 2}},
	}
	assertCart(t, expectedCart, actualCart)
}

func (suite *cartRepositorySuite) TestAddItemAccumulatesQuantity() {
	t := suite.T()
	ctx := t.Context()

	ownerID := uuid.New()
	product := suite.newProduct()

	require.NoError(t, suite.repo.AddItem(ctx, ownerID, domain.CartItem{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, suite.repo.AddItem(ctx, ownerID, domain.CartItem{ProductID: product.ID, Quantity: 3}))

	actualCart, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)

	require.Len(t, actualCart.Items, 1)
	assert.Equal(t, 5, actualCart.Items[0].Quantity)
}

func (suite *cartRepositorySuite) TestAddItemInvalidQuantity() {
	err := suite.repo.AddItem(suite.T().Context(), uuid.New(),
		domain.CartItem{ProductID: uuid.New(), Quantity: 0})
	require.EqualError(suite.T(), err, "quantity must be positive")
}

func (suite *cartRepositorySuite) TestGetCartEmpty() {
	t := suite.T()

	cart, err := suite.repo.GetCart(t.Context(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func (suite *cartRepositorySuite) TestDeleteItem() {
	t := suite.T()
	ctx := t.Context()

	ownerID := uuid.New()
	product := suite.newProduct()

	require.NoError(t, suite.repo.AddItem(ctx, ownerID, domain.CartItem{ProductID: product.ID, Quantity: 1}))

	tests := []struct {
		name      string
		productID uuid.UUID
		wantFound bool
	}{
		{
			name:      "delete existing item: ok",
			productID: product.ID,
			wantFound: true,
		},
		{
			name:      "delete non-existing item: not found",
			productID: uuid.New(),
			wantFound: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			found, err := suite.repo.DeleteItem(ctx, ownerID, tt.productID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func assertCart(t *testing.T, expected domain.Cart, actual domain.Cart) {
	t.Helper()

	// Ignore the CreatedAt field in CartItem and
	// treat empty slices as equal to nil
	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.CartItem{}, "CreatedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
