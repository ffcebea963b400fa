package ports

import (
	"context"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
)

// Service exposes the catalog use cases to adapters.
type Service interface {
	CreateItem(ctx context.Context, input types.CreateItemInput) (*types.ItemProjection, error)
	UpdateItem(ctx context.Context, input types.UpdateItemInput) (*types.ItemProjection, error)
	DeleteItem(ctx context.Context, input types.DeleteItemInput) error
	GetItem(ctx context.Context, input types.ItemIdentifier) (*types.ItemProjection, error)
	ListItems(ctx context.Context, input types.ListItemsInput) ([]*types.ItemProjection, error)
	LowStockCount(ctx context.Context) (int, error)
}
