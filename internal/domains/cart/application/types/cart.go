package types

import (
	"github.com/shopspring/decimal"

	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
)

// AddItemInput puts one unit of a catalog item in the session cart.
type AddItemInput struct {
	SessionID string
	ItemID    string
}

// UpdateLineInput replaces a line quantity; zero or less removes the line.
type UpdateLineInput struct {
	SessionID string
	ItemID    string
	Quantity  int
}

// CartView is the cart with its derived totals.
type CartView struct {
	Lines                []cart.Line
	TotalQuantity        int
	TotalAmount          decimal.Decimal
	RequiresPrescription bool
}

// NewCartView derives the totals of c.
func NewCartView(c *cart.Cart) *CartView {
	return &CartView{
		Lines:                c.Lines(),
		TotalQuantity:        c.TotalQuantity(),
		TotalAmount:          c.TotalAmount(),
		RequiresPrescription: c.RequiresPrescription(),
	}
}
