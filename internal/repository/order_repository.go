package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"storefront/internal/domain"
)

// CreateOrder persists the order header and all line items in one
// transaction. Each item insert re-checks that the referenced product still
// exists; any failure rolls the whole order back, so readers never see a
// partial order.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	headerQuery := `INSERT INTO orders
	    (id, full_name, email, shipping_address, shipping_method, shipping_cost,
	     subtotal, tax, total, status, created_at)
	    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.ExecContext(ctx, headerQuery,
		order.ID,
		order.FullName,
		order.Email,
		order.ShippingAddress,
		order.ShippingMethod,
		order.ShippingCost,
		order.Subtotal,
		order.Tax,
		order.Total,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	// INSERT ... SELECT keeps the existence check and the write in the same
	// statement, so a product deleted after the initial lookup surfaces here
	// as zero affected rows instead of a dangling reference.
	itemQuery := `INSERT INTO order_items (order_id, product_id, qty, unit_price)
	    SELECT $1, id, $3, $4 FROM products WHERE id = $2`

	for _, item := range order.Items {
		res, insertErr := tx.ExecContext(ctx, itemQuery,
			order.ID,
			item.ProductID,
			item.Qty,
			item.UnitPrice,
		)
		if insertErr != nil {
			var pqErr *pq.Error
			if errors.As(insertErr, &pqErr) && pqErr.Code == "23503" {
				return fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
			}
			return fmt.Errorf("insert order item: %w", insertErr)
		}

		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return fmt.Errorf("insert order item: %w", raErr)
		}
		if affected == 0 {
			return fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, full_name, email, shipping_address, shipping_method,
	                 shipping_cost, subtotal, tax, total, status, created_at
	          FROM orders WHERE id = $1`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.FullName,
		&order.Email,
		&order.ShippingAddress,
		&order.ShippingMethod,
		&order.ShippingCost,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *Repository) ListOrdersByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	query := `SELECT id, full_name, email, shipping_address, shipping_method,
	                 shipping_cost, subtotal, tax, total, status, created_at
	          FROM orders WHERE email = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("query orders by email: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.FullName,
			&order.Email,
			&order.ShippingAddress,
			&order.ShippingMethod,
			&order.ShippingCost,
			&order.Subtotal,
			&order.Tax,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// loadItems joins each line item with its product so the read path carries
// the current catalog row next to the frozen unit price.
func (r *Repository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT oi.product_id, oi.qty, oi.unit_price,
	                 p.id, p.name, p.slug, p.description, p.price, p.image, p.featured, p.in_stock
	          FROM order_items oi
	          JOIN products p ON p.id = oi.product_id
	          WHERE oi.order_id = $1
	          ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ProductID,
			&item.Qty,
			&item.UnitPrice,
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Slug,
			&item.Product.Description,
			&item.Product.Price,
			&item.Product.Image,
			&item.Product.Featured,
			&item.Product.InStock,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}
