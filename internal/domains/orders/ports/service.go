package ports

import (
	"context"

	"github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
)

// Service exposes the checkout and order lifecycle use cases.
type Service interface {
	Checkout(ctx context.Context, input types.CheckoutInput) (*types.CheckoutResult, error)
	ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error)
	GetOrder(ctx context.Context, input types.GetOrderInput) (*domain.Order, error)
	Transition(ctx context.Context, input types.TransitionInput) (*domain.Order, error)
	AuthorizeDispatch(ctx context.Context, input types.GetOrderInput) (*domain.Order, error)
}
