package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"storefront/internal/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func insertProduct(t *testing.T, repo *Repository, name, slug, price string, inStock bool) int64 {
	t.Helper()
	var id int64
	err := repo.db.QueryRow(
		`INSERT INTO products (name, slug, price, in_stock) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, slug, price, inStock,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func testOrder(productID int64, qty int, unitPrice string) *domain.Order {
	price := decimal.RequireFromString(unitPrice)
	subtotal := price.Mul(decimal.NewFromInt(int64(qty)))
	tax := subtotal.Mul(decimal.New(13, -2)).Round(2)
	shipping := decimal.RequireFromString("5.00")

	return &domain.Order{
		ID:              uuid.New(),
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		ShippingAddress: "123 Main St",
		ShippingMethod:  "Standard",
		ShippingCost:    shipping,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           subtotal.Add(tax).Add(shipping),
		Status:          domain.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
		Items: []domain.OrderItem{
			{ProductID: productID, Qty: qty, UnitPrice: price},
		},
	}
}

func TestCreateOrder_PersistsHeaderAndItems(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	productID := insertProduct(t, repo, "Laptop", "laptop", "10.00", true)

	order := testOrder(productID, 2, "10.00")
	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", got.FullName)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("20.00")), "subtotal = %s", got.Subtotal)
	assert.True(t, got.Tax.Equal(decimal.RequireFromString("2.60")), "tax = %s", got.Tax)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("27.60")), "total = %s", got.Total)
	assert.Equal(t, domain.OrderStatusPending, got.Status)

	require.Len(t, got.Items, 1)
	assert.Equal(t, productID, got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Qty)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, "Laptop", got.Items[0].Product.Name)
}

func TestCreateOrder_MissingProductRollsBackEverything(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	productID := insertProduct(t, repo, "Mouse", "mouse", "4.50", true)

	order := testOrder(productID, 1, "4.50")
	order.Items = append(order.Items, domain.OrderItem{
		ProductID: 99999,
		Qty:       1,
		UnitPrice: decimal.RequireFromString("1.00"),
	})

	err := repo.CreateOrder(ctx, order)
	require.ErrorIs(t, err, ErrProductNotFound)

	// nothing of the order is visible, header included
	_, err = repo.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var itemCount int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM order_items`).Scan(&itemCount))
	assert.Equal(t, 0, itemCount)
}

func TestGetOrder_UnitPriceSurvivesCatalogPriceChange(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	productID := insertProduct(t, repo, "Keyboard", "keyboard", "25.00", true)

	order := testOrder(productID, 1, "25.00")
	require.NoError(t, repo.CreateOrder(ctx, order))

	_, err := repo.db.Exec(`UPDATE products SET price = 99.99 WHERE id = $1`, productID)
	require.NoError(t, err)

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	// frozen accounting price vs current catalog price
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, got.Items[0].Product.Price.Equal(decimal.RequireFromString("99.99")))
}

func TestCreateOrder_ConcurrentOrdersForSameProduct(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	productID := insertProduct(t, repo, "Monitor", "monitor", "150.00", true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	orders := make([]*domain.Order, 2)
	for i := 0; i < 2; i++ {
		orders[i] = testOrder(productID, 1, "150.00")
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CreateOrder(ctx, orders[i])
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	for i := 0; i < 2; i++ {
		got, err := repo.GetOrder(ctx, orders[i].ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, productID, got.Items[0].ProductID)
	}
}

func TestListOrdersByEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	productID := insertProduct(t, repo, "Cable", "cable", "3.00", true)

	first := testOrder(productID, 1, "3.00")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.CreateOrder(ctx, first))

	second := testOrder(productID, 2, "3.00")
	require.NoError(t, repo.CreateOrder(ctx, second))

	other := testOrder(productID, 1, "3.00")
	other.Email = "someone-else@example.com"
	require.NoError(t, repo.CreateOrder(ctx, other))

	got, err := repo.ListOrdersByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// newest first
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, 2, got[0].Items[0].Qty)
}

func TestProducts_GetAndList(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id := insertProduct(t, repo, "Desk", "desk", "80.00", false)

	p, err := repo.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Desk", p.Name)
	assert.False(t, p.InStock)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("80.00")))

	_, err = repo.GetProduct(ctx, 99999)
	assert.ErrorIs(t, err, ErrProductNotFound)

	insertProduct(t, repo, "Chair", "chair", "45.00", true)
	all, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReviews_AddAndList(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	productID := insertProduct(t, repo, "Lamp", "lamp", "12.00", true)

	review := &domain.Review{
		ProductID: productID,
		Rating:    4,
		Text:      "Bright enough",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.AddReview(ctx, review))
	assert.NotZero(t, review.ID)

	missing := &domain.Review{ProductID: 99999, Rating: 5, CreatedAt: time.Now().UTC()}
	err := repo.AddReview(ctx, missing)
	assert.ErrorIs(t, err, ErrProductNotFound)

	reviews, err := repo.ListReviews(ctx, productID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
}

func TestUsers_CreateAndLookup(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := &domain.User{
		Username:     "jane",
		Email:        "Jane@Example.com",
		FirstName:    "Jane",
		LastName:     "Doe",
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	dup := &domain.User{Username: "jane", Email: "other@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	err := repo.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateUser)

	byName, err := repo.GetUserByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	// email lookup is case-insensitive
	byEmail, err := repo.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
