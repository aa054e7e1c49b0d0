package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// --- product repository mock ---

type mockProductRepo struct {
	m        sync.RWMutex
	products map[int64]domain.Product
	err      error
	getCalls int
}

func newMockProductRepo(products ...domain.Product) *mockProductRepo {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &mockProductRepo{products: byID}
}

func (m *mockProductRepo) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.m.Lock()
	m.getCalls++
	m.m.Unlock()

	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) ListProducts(context.Context) ([]domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	list := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *mockProductRepo) setPrice(id int64, price string) {
	m.m.Lock()
	defer m.m.Unlock()
	p := m.products[id]
	p.Price = mustDec(price)
	m.products[id] = p
}

func (m *mockProductRepo) remove(id int64) {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, id)
}

// --- order repository mock ---

// mockOrderRepo mirrors the postgres repository's contract: the create path
// re-checks product existence, and the read path fills each item's Product
// with the current catalog row.
type mockOrderRepo struct {
	m           sync.Mutex
	orders      map[uuid.UUID]*domain.Order
	products    *mockProductRepo
	createErr   error
	createCalls int
}

func newMockOrderRepo(products *mockProductRepo) *mockOrderRepo {
	return &mockOrderRepo{
		orders:   make(map[uuid.UUID]*domain.Order),
		products: products,
	}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}

	m.products.m.RLock()
	defer m.products.m.RUnlock()
	for _, item := range order.Items {
		if _, ok := m.products.products[item.ProductID]; !ok {
			return fmt.Errorf("%w: product %d", repository.ErrProductNotFound, item.ProductID)
		}
	}

	stored := *order
	stored.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &stored
	return nil
}

func (m *mockOrderRepo) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	stored, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return m.withProducts(stored), nil
}

func (m *mockOrderRepo) ListOrdersByEmail(_ context.Context, email string) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var orders []*domain.Order
	for _, stored := range m.orders {
		if stored.Email == email {
			orders = append(orders, m.withProducts(stored))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (m *mockOrderRepo) withProducts(stored *domain.Order) *domain.Order {
	out := *stored
	out.Items = append([]domain.OrderItem(nil), stored.Items...)

	m.products.m.RLock()
	defer m.products.m.RUnlock()
	for i := range out.Items {
		out.Items[i].Product = m.products.products[out.Items[i].ProductID]
	}
	return &out
}

// --- product cache mock ---

type mockProductCache struct {
	m        sync.Mutex
	list     []domain.Product
	cached   bool
	getErr   error
	setCalls int
}

func (m *mockProductCache) GetList(context.Context) ([]domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.list, nil
}

func (m *mockProductCache) SetList(_ context.Context, products []domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.list = products
	m.cached = true
	m.setCalls++
	return nil
}

func (m *mockProductCache) Delete(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.list = nil
	m.cached = false
	return nil
}

// --- user repository mock ---

type mockUserRepo struct {
	m      sync.Mutex
	users  map[string]*domain.User // keyed by username
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if u, ok := m.users[username]; ok {
		out := *u
		return &out, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}
