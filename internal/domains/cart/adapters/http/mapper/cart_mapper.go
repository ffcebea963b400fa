package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/mediswift-api/internal/domains/cart/application/types"
	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	catalogmapper "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/http/mapper"
)

// Line is the transport representation of a cart line.
type Line struct {
	Item     catalogmapper.Item `json:"item"`
	Quantity int                `json:"quantity"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// Cart is the transport representation of a cart with totals.
type Cart struct {
	Lines                []Line          `json:"lines"`
	TotalQuantity        int             `json:"totalQuantity"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	RequiresPrescription bool            `json:"requiresPrescription"`
}

// AddItemRequest is the body of the add-to-cart call.
type AddItemRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

// UpdateLineRequest is the body of the quantity update call.
type UpdateLineRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// FromLines converts cart lines.
func FromLines(lines []cart.Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		item := line.Item
		out = append(out, Line{
			Item:     catalogmapper.FromDomain(&item),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal(),
		})
	}
	return out
}

// FromView converts a cart view.
func FromView(view *types.CartView) Cart {
	if view == nil {
		return Cart{Lines: []Line{}, TotalAmount: decimal.Zero}
	}
	return Cart{
		Lines:                FromLines(view.Lines),
		TotalQuantity:        view.TotalQuantity,
		TotalAmount:          view.TotalAmount,
		RequiresPrescription: view.RequiresPrescription,
	}
}
