package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/repository"
)

type OrderLine struct {
	ProductID int64
	Qty       int
}

type PlaceOrderRequest struct {
	FullName        string
	Email           string
	ShippingAddress string
	ShippingMethod  string
	ShippingCost    decimal.Decimal
	Items           []OrderLine
}

type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository) *OrderService {
	return &OrderService{products: products, orders: orders}
}

// PlaceOrder runs the full placement workflow: validate the request,
// resolve every line against the catalog, compute totals, and persist the
// order atomically. The returned order is read back from storage so line
// items carry the current product rows.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*domain.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	// Each request line resolves independently; the same product twice
	// yields two line items.
	items := make([]domain.OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.InStock {
			return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, line.ProductID)
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Qty:       line.Qty,
			UnitPrice: product.Price,
		})
		lines = append(lines, pricing.Line{UnitPrice: product.Price, Qty: line.Qty})
	}

	totals, err := pricing.Compute(lines, req.ShippingCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	order := &domain.Order{
		ID:              uuid.New(),
		FullName:        req.FullName,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		ShippingCost:    req.ShippingCost,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Status:          domain.OrderStatusPending,
		Items:           items,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return s.orders.GetOrder(ctx, order.ID)
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, email string) ([]*domain.Order, error) {
	return s.orders.ListOrdersByEmail(ctx, email)
}

func validateOrderRequest(req *PlaceOrderRequest) error {
	if strings.TrimSpace(req.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: email is not a valid address", ErrInvalidInput)
	}
	if req.ShippingCost.IsNegative() {
		return fmt.Errorf("%w: shipping_cost must not be negative", ErrInvalidInput)
	}
	for _, line := range req.Items {
		if line.Qty <= 0 {
			return fmt.Errorf("%w: qty must be a positive integer", ErrInvalidInput)
		}
	}
	return nil
}
