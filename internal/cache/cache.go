package cache

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

type ProductCache interface {
	GetList(ctx context.Context) ([]domain.Product, error)
	SetList(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
