package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type ReviewService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
}

func NewReviewService(products repository.ProductRepository, reviews repository.ReviewRepository) *ReviewService {
	return &ReviewService{products: products, reviews: reviews}
}

func (s *ReviewService) AddReview(ctx context.Context, productID int64, rating int, text string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID: productID,
		Rating:    rating,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.AddReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviews.ListReviews(ctx, productID)
}
