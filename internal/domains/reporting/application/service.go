package application

import (
	"context"
	"errors"
	"slices"
	"time"

	catalogdomain "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	orderdomain "github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	"github.com/Apurer/mediswift-api/internal/domains/reporting/ports"
	"github.com/Apurer/mediswift-api/internal/shared/projection"
)

// RecentLimit caps the orders listed on the dashboard.
const RecentLimit = 10

// ErrForbidden signals the dashboard was requested by someone outside pharmacy staff.
var ErrForbidden = errors.New("dashboard is restricted to pharmacy staff")

// Service composes dashboard figures from the order and catalog repositories.
type Service struct {
	orders  orderports.Repository
	catalog catalogports.Repository
}

func NewService(orders orderports.Repository, catalog catalogports.Repository) *Service {
	return &Service{orders: orders, catalog: catalog}
}

// Summary returns sales, verification backlog and low stock figures for staff.
func (s *Service) Summary(ctx context.Context, actor *identity.Actor) (*ports.Summary, error) {
	if actor == nil {
		return nil, identity.ErrUnauthenticated
	}
	if !actor.Role.IsOperator() {
		return nil, ErrForbidden
	}
	orders, err := s.orders.List(ctx, orderports.ListFilter{})
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	recent := orderdomain.NewestFirst(orders)
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return &ports.Summary{
		TotalSales:    orderdomain.TotalSales(orders),
		PendingCount:  orderdomain.PendingCount(orders),
		LowStockCount: catalogdomain.LowStockCount(projection.Entities(items)),
		OrderCount:    len(orders),
		Recent:        recent,
	}, nil
}

// StalePending lists orders still waiting for verification that were placed before cutoff, oldest first.
func (s *Service) StalePending(ctx context.Context, cutoff time.Time) ([]*orderdomain.Order, error) {
	pending, err := s.orders.List(ctx, orderports.ListFilter{Status: orderdomain.StatusPendingVerification})
	if err != nil {
		return nil, err
	}
	stale := orderdomain.NewestFirst(orderdomain.OlderThan(pending, cutoff))
	slices.Reverse(stale)
	return stale, nil
}

var _ ports.Service = (*Service)(nil)
