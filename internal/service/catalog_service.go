package service

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/repository"
)

type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.ProductRepository, cache cache.ProductCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {

		products, err := s.cache.GetList(ctx)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		products, errList := s.repo.ListProducts(ctx)
		if errList != nil {
			return nil, errList
		}

		// set cache
		go func() {
			errSet := s.cache.SetList(context.Background(), products)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}
