package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	catalog "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
)

var (
	ErrNilItem         = errors.New("cart item is nil")
	ErrInvalidQuantity = errors.New("cart line quantity must be greater than zero")
	ErrDuplicateLine   = errors.New("cart already holds a line for this item")
)

// Line is a frozen item snapshot with the quantity ordered.
type Line struct {
	Item     catalog.Item
	Quantity int
}

// ItemID is the id of the item the line holds.
func (l Line) ItemID() string {
	return l.Item.ID
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone deep copies the line.
func (l Line) Clone() Line {
	return Line{Item: *l.Item.Clone(), Quantity: l.Quantity}
}

// Cart holds at most one line per item, in insertion order. Lines never have quantity <= 0.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from persisted lines.
func Restore(lines []Line) (*Cart, error) {
	c := &Cart{lines: make([]Line, 0, len(lines))}
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, ok := seen[line.ItemID()]; ok {
			return nil, ErrDuplicateLine
		}
		seen[line.ItemID()] = struct{}{}
		c.lines = append(c.lines, line.Clone())
	}
	return c, nil
}

// Add puts one unit of item in the cart. A new line snapshots the item as it is now;
// an existing line keeps its snapshot and gains one unit. Stock is not checked.
func (c *Cart) Add(item *catalog.Item) error {
	if item == nil {
		return ErrNilItem
	}
	if idx := c.index(item.ID); idx >= 0 {
		c.lines[idx].Quantity++
		return nil
	}
	c.lines = append(c.lines, Line{Item: *item.Clone(), Quantity: 1})
	return nil
}

// SetQuantity replaces the quantity of a line; qty <= 0 removes it.
// It reports whether a line for itemID existed.
func (c *Cart) SetQuantity(itemID string, qty int) bool {
	idx := c.index(itemID)
	if idx < 0 {
		return false
	}
	if qty <= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
		return true
	}
	c.lines[idx].Quantity = qty
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a deep copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	if c == nil {
		return nil
	}
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, line.Clone())
	}
	return out
}

// Line returns the line for itemID, if any.
func (c *Cart) Line(itemID string) (Line, bool) {
	if idx := c.index(itemID); idx >= 0 {
		return c.lines[idx].Clone(), true
	}
	return Line{}, false
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.lines) == 0
}

// TotalQuantity is the sum of line quantities.
func (c *Cart) TotalQuantity() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalAmount is the sum of line subtotals, computed on every call.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// RequiresPrescription reports whether any line holds a prescription item.
func (c *Cart) RequiresPrescription() bool {
	return LinesRequirePrescription(c.Lines())
}

// Clone deep copies the cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return New()
	}
	return &Cart{lines: c.Lines()}
}

func (c *Cart) index(itemID string) int {
	if c == nil {
		return -1
	}
	for i := range c.lines {
		if c.lines[i].ItemID() == itemID {
			return i
		}
	}
	return -1
}

// LinesTotal sums the subtotals of lines.
func LinesTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// LinesRequirePrescription reports whether any line holds a prescription item.
func LinesRequirePrescription(lines []Line) bool {
	for _, line := range lines {
		if line.Item.RequiresPrescription {
			return true
		}
	}
	return false
}
