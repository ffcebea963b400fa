package mapper

import (
	"github.com/shopspring/decimal"

	catalog "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	ordermapper "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/mediswift-api/internal/domains/reporting/ports"
)

// Dashboard is the transport representation of the operator summary.
type Dashboard struct {
	TotalSales        decimal.Decimal     `json:"totalSales"`
	TotalSalesLabel   string              `json:"totalSalesLabel"`
	Currency          string              `json:"currency"`
	PendingCount      int                 `json:"pendingCount"`
	LowStockCount     int                 `json:"lowStockCount"`
	LowStockThreshold int                 `json:"lowStockThreshold"`
	OrderCount        int                 `json:"orderCount"`
	RecentOrders      []ordermapper.Order `json:"recentOrders"`
}

// FromSummary converts the summary as seen by viewer.
func FromSummary(summary *ports.Summary, viewer identity.Role) Dashboard {
	return Dashboard{
		TotalSales:        summary.TotalSales,
		TotalSalesLabel:   catalog.FormatAmount(summary.TotalSales),
		Currency:          catalog.PriceCurrency.String(),
		PendingCount:      summary.PendingCount,
		LowStockCount:     summary.LowStockCount,
		LowStockThreshold: catalog.LowStockThreshold,
		OrderCount:        summary.OrderCount,
		RecentOrders:      ordermapper.FromDomainList(summary.Recent, viewer),
	}
}
