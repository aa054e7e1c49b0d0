package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateUser   = errors.New("username or email already taken")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]*domain.Order, error)
}

type ReviewRepository interface {
	AddReview(ctx context.Context, review *domain.Review) error
	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
