package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	orderdomain "github.com/Apurer/mediswift-api/internal/domains/orders/domain"
)

// Summary is the operator dashboard.
type Summary struct {
	TotalSales    decimal.Decimal
	PendingCount  int
	LowStockCount int
	OrderCount    int
	Recent        []*orderdomain.Order
}

// Service exposes read-only projections over orders and the catalog.
type Service interface {
	Summary(ctx context.Context, actor *identity.Actor) (*Summary, error)
	StalePending(ctx context.Context, cutoff time.Time) ([]*orderdomain.Order, error)
}
