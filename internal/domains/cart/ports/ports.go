package ports

import (
	"context"

	"github.com/Apurer/mediswift-api/internal/domains/cart/application/types"
	catalogtypes "github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
)

// ItemReader resolves catalog items for the cart.
type ItemReader interface {
	GetItem(ctx context.Context, input catalogtypes.ItemIdentifier) (*catalogtypes.ItemProjection, error)
}

// Service exposes the cart use cases.
type Service interface {
	AddItem(ctx context.Context, input types.AddItemInput) (*types.CartView, error)
	UpdateLine(ctx context.Context, input types.UpdateLineInput) (*types.CartView, error)
	View(ctx context.Context, sessionID string) (*types.CartView, error)
}
