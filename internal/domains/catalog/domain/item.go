package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LowStockThreshold is the stock level below which an item counts as low.
const LowStockThreshold = 10

// PriceCurrency is the currency every catalog price is quoted in.
var PriceCurrency = currency.USD

// FormatAmount renders amount in PriceCurrency with its symbol, e.g. "$ 5.20".
func FormatAmount(amount decimal.Decimal) string {
	return message.NewPrinter(language.English).
		Sprint(currency.Symbol(PriceCurrency.Amount(amount.Round(2).InexactFloat64())))
}

var (
	ErrEmptyID            = errors.New("item id is required")
	ErrEmptyName          = errors.New("item name is required")
	ErrNegativePrice      = errors.New("item price must be greater or equal to zero")
	ErrNegativeStock      = errors.New("item stock must be greater or equal to zero")
	ErrOriginalBelowPrice = errors.New("original price must be greater or equal to price")
)

// Item is a catalog entry. The ordering flow only ever reads it.
type Item struct {
	ID                   string
	Name                 string
	Brand                string
	Price                decimal.Decimal
	OriginalPrice        *decimal.Decimal
	Stock                int
	RequiresPrescription bool
	Category             Category
	Description          string
	ImageURL             string
}

// Validate enforces the item invariants.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	if i.OriginalPrice != nil && i.OriginalPrice.LessThan(i.Price) {
		return ErrOriginalBelowPrice
	}
	if i.Stock < 0 {
		return ErrNegativeStock
	}
	if !i.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	clone := *i
	if i.OriginalPrice != nil {
		original := *i.OriginalPrice
		clone.OriginalPrice = &original
	}
	return &clone
}

// DiscountPercent is the rounded markdown from the original price, or zero.
func (i *Item) DiscountPercent() int {
	if i.OriginalPrice == nil || !i.OriginalPrice.GreaterThan(i.Price) {
		return 0
	}
	off := i.OriginalPrice.Sub(i.Price).Div(*i.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}

// IsLowStock reports whether the item is below LowStockThreshold.
func (i *Item) IsLowStock() bool {
	return i.Stock < LowStockThreshold
}

// Matches reports whether query is a case-insensitive substring of the name or brand.
// An empty query matches everything.
func (i *Item) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Name), query) ||
		strings.Contains(strings.ToLower(i.Brand), query)
}

// LowStockCount counts items whose stock is below LowStockThreshold.
func LowStockCount(items []*Item) int {
	count := 0
	for _, item := range items {
		if item != nil && item.IsLowStock() {
			count++
		}
	}
	return count
}
