package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// OrderItem records one product line within an order. UnitPrice is the
// catalog price captured when the order was placed; Product carries the
// current catalog row when loaded through the read path.
type OrderItem struct {
	ProductID int64
	Qty       int
	UnitPrice decimal.Decimal
	Product   Product
}

type Order struct {
	ID              uuid.UUID
	FullName        string
	Email           string
	ShippingAddress string
	ShippingMethod  string
	ShippingCost    decimal.Decimal
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Status          OrderStatus
	Items           []OrderItem
	CreatedAt       time.Time
}
