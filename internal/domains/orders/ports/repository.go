package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrDuplicateID = errors.New("order id already exists")
	// ErrStatusConflict is returned when the stored status no longer matches the expected one.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// ListFilter narrows a listing; zero values match everything.
type ListFilter struct {
	UserID string
	Status domain.Status
}

// Repository persists orders. Orders are never deleted.
type Repository interface {
	// Create stores the order and sets its placement sequence.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
	// UpdateStatus moves the order from one status to another only if it is still in from.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, at time.Time) (*domain.Order, error)
}
