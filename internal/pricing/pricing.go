package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrNegativeShipping = errors.New("shipping cost must not be negative")
)

// taxRate is the flat sales tax applied to the subtotal.
var taxRate = decimal.New(13, -2)

type Line struct {
	UnitPrice decimal.Decimal
	Qty       int
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute calculates order totals from resolved catalog prices. All
// arithmetic is decimal; tax is rounded half-up to two decimal places.
func Compute(lines []Line, shipping decimal.Decimal) (Totals, error) {
	if shipping.IsNegative() {
		return Totals{}, ErrNegativeShipping
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Qty <= 0 {
			return Totals{}, ErrInvalidQuantity
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}

	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax).Add(shipping)

	return Totals{Subtotal: subtotal, Tax: tax, Total: total}, nil
}
