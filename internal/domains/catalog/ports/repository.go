package ports

import (
	"context"
	"errors"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	"github.com/Apurer/mediswift-api/internal/shared/projection"
)

var ErrNotFound = errors.New("catalog item not found")

// Repository persists catalog items. List returns items ordered by creation time, then id.
type Repository interface {
	Save(ctx context.Context, item *domain.Item) (*projection.Projection[*domain.Item], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Item], error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*projection.Projection[*domain.Item], error)
}
