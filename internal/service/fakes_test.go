package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/repository"
)

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]domain.User{}}
}

func (r *fakeUserRepo) InsertUser(_ context.Context, user domain.User) (uuid.UUID, error) {
	user.ID = uuid.New()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, userID uuid.UUID) (domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) ListUsers(_ context.Context, limit, offset int) ([]domain.User, error) {
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type fakeCartRepo struct {
	carts map[uuid.UUID]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uuid.UUID]domain.Cart{}}
}

func (r *fakeCartRepo) GetCart(_ context.Context, ownerID uuid.UUID) (domain.Cart, error) {
	cart, ok := r.carts[ownerID]
	if !ok {
		return domain.Cart{OwnerID: ownerID}, nil
	}
	return cart, nil
}

func (r *fakeCartRepo) AddItem(_ context.Context, ownerID uuid.UUID, item domain.CartItem) error {
	cart := r.carts[ownerID]
	cart.OwnerID = ownerID
	cart.Items = append(cart.Items, item)
	r.carts[ownerID] = cart
	return nil
}

func (r *fakeCartRepo) DeleteItem(_ context.Context, ownerID uuid.UUID, productID uuid.UUID) (bool, error) {
	cart, ok := r.carts[ownerID]
	if !ok {
		return false, nil
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			r.carts[ownerID] = cart
			return true, nil
		}
	}
	return false, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]domain.Product{}}
}

func (r *fakeProductRepo) InsertProduct(_ context.Context, product domain.Product) (uuid.UUID, error) {
	product.ID = uuid.New()
	r.products[product.ID] = product
	return product.ID, nil
}

func (r *fakeProductRepo) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return domain.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) ListProducts(_ context.Context, limit, offset int) ([]domain.Product, error) {
	all := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	return all, nil
}

func (r *fakeProductRepo) ListStoreProducts(_ context.Context, storeID uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeStoreRepo struct {
	stores  map[uuid.UUID]domain.Store
	pickups map[uuid.UUID]domain.PickupLocation
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{
		stores:  map[uuid.UUID]domain.Store{},
		pickups: map[uuid.UUID]domain.PickupLocation{},
	}
}

func (r *fakeStoreRepo) InsertStore(_ context.Context, store domain.Store) (uuid.UUID, error) {
	store.ID = uuid.New()
	r.stores[store.ID] = store
	return store.ID, nil
}

func (r *fakeStoreRepo) GetStore(_ context.Context, storeID uuid.UUID) (domain.Store, error) {
	s, ok := r.stores[storeID]
	if !ok {
		return domain.Store{}, repository.ErrStoreNotFound
	}
	return s, nil
}

func (r *fakeStoreRepo) ListStores(_ context.Context) ([]domain.Store, error) {
	all := make([]domain.Store, 0, len(r.stores))
	for _, s := range r.stores {
		all = append(all, s)
	}
	return all, nil
}

func (r *fakeStoreRepo) GetPickupLocation(_ context.Context, storeID uuid.UUID) (domain.PickupLocation, error) {
	loc, ok := r.pickups[storeID]
	if !ok {
		return domain.PickupLocation{}, repository.ErrPickupNotFound
	}
	return loc, nil
}

func (r *fakeStoreRepo) UpsertPickupLocation(_ context.Context, loc domain.PickupLocation) error {
	r.pickups[loc.StoreID] = loc
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]domain.Order

	insertErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]domain.Order{}}
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	all := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, o)
	}
	return all, nil
}

func (r *fakeOrderRepo) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	if r.insertErr != nil {
		return uuid.Nil, r.insertErr
	}
	order.ID = uuid.New()
	r.orders[order.ID] = order
	return order.ID, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	o, ok := r.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	r.orders[orderID] = o
	return nil
}

func (r *fakeOrderRepo) AssignHandler(_ context.Context, orderID uuid.UUID, handler string) (bool, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return false, repository.ErrOrderNotFound
	}
	if o.HandledBy != nil {
		return false, nil
	}
	o.HandledBy = &handler
	r.orders[orderID] = o
	return true, nil
}
