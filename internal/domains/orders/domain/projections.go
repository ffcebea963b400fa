package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TotalSales sums order totals across every status, rejected orders included.
func TotalSales(orders []*Order) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.TotalAmount)
	}
	return total
}

// PendingCount counts orders waiting for prescription verification.
func PendingCount(orders []*Order) int {
	return len(WithStatus(orders, StatusPendingVerification))
}

// WithStatus keeps the orders in status.
func WithStatus(orders []*Order, status Status) []*Order {
	var out []*Order
	for _, order := range orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out
}

// PlacedBy keeps the orders of one user.
func PlacedBy(orders []*Order, userID string) []*Order {
	var out []*Order
	for _, order := range orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out
}

// OlderThan keeps the orders created before cutoff.
func OlderThan(orders []*Order, cutoff time.Time) []*Order {
	var out []*Order
	for _, order := range orders {
		if order.CreatedAt.Before(cutoff) {
			out = append(out, order)
		}
	}
	return out
}

// NewestFirst sorts a copy of orders by creation time, newest first. Orders placed at the same instant
// keep placement order, the later one first.
func NewestFirst(orders []*Order) []*Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b *Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Seq, a.Seq); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}
