package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Image       string
	Featured    bool
	InStock     bool
}
