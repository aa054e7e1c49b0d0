package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront/internal/domain"
)

func (r *Repository) AddReview(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (product_id, rating, text, created_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		review.ProductID,
		review.Rating,
		review.Text,
		review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: product %d", ErrProductNotFound, review.ProductID)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repository) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	query := `SELECT id, product_id, rating, text, created_at
	          FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reviews, nil
}
