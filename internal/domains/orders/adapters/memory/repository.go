package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	seq    int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return ports.ErrDuplicateID
	}
	r.seq++
	order.Seq = r.seq
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		list = append(list, order.Clone())
	}
	return list, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, from, to domain.Status, at time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Status != from {
		return nil, ports.ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = at
	return order.Clone(), nil
}
