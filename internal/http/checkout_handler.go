package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/service"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req *service.PlaceOrderRequest) (*domain.Order, error)
}

type CheckoutHandler struct {
	orders  OrderPlacer
	timeout time.Duration
}

func NewCheckoutHandler(orders OrderPlacer, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrderItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	// Qty is optional and defaults to 1; an explicit zero is rejected.
	Qty *int `json:"qty"`
}

type CreateOrderRequestDTO struct {
	FullName        string                `json:"full_name"`
	Email           string                `json:"email"`
	ShippingAddress string                `json:"shipping_address"`
	ShippingMethod  string                `json:"shipping_method"`
	ShippingCost    decimal.Decimal       `json:"shipping_cost"`
	Items           []OrderItemRequestDTO `json:"items"`
}

type OrderItemDTO struct {
	Product ProductResponse `json:"product"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
}

type OrderResponseDTO struct {
	ID              string          `json:"id"`
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingMethod  string          `json:"shipping_method"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	Items           []OrderItemDTO  `json:"items"`
	CreatedAt       string          `json:"created_at"`
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			Product: convertProduct(item.Product),
			Qty:     item.Qty,
			Price:   item.UnitPrice,
		})
	}

	return OrderResponseDTO{
		ID:              o.ID.String(),
		FullName:        o.FullName,
		Email:           o.Email,
		ShippingAddress: o.ShippingAddress,
		ShippingMethod:  o.ShippingMethod,
		ShippingCost:    o.ShippingCost,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Total:           o.Total,
		Status:          string(o.Status),
		Items:           items,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		qty := 1
		if item.Qty != nil {
			qty = *item.Qty
		}
		items = append(items, service.OrderLine{ProductID: item.ProductID, Qty: qty})
	}

	order, err := h.orders.PlaceOrder(ctx, &service.PlaceOrderRequest{
		FullName:        req.FullName,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		ShippingCost:    req.ShippingCost,
		Items:           items,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertOrder(order))
}
