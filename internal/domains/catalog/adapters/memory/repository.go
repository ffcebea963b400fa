package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	"github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	"github.com/Apurer/mediswift-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog used for demos and tests.
type Repository struct {
	mu    sync.RWMutex
	items map[string]*storedItem
	now   func() time.Time
}

type storedItem struct {
	item     *domain.Item
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory catalog.
func NewRepository() *Repository {
	return &Repository{
		items: map[string]*storedItem{},
		now:   time.Now,
	}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Save inserts or replaces an item while keeping its creation time.
func (r *Repository) Save(_ context.Context, item *domain.Item) (*projection.Projection[*domain.Item], error) {
	if item == nil {
		return nil, errors.New("cannot save nil item")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	metadata := projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}
	if existing, ok := r.items[item.ID]; ok {
		metadata.CreatedAt = existing.metadata.CreatedAt
	}
	stored := &storedItem{item: item.Clone(), metadata: metadata}
	r.items[item.ID] = stored
	return stored.projection(), nil
}

// GetByID fetches an item if present.
func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Item], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return stored.projection(), nil
}

// Delete removes an item.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// List returns every item ordered by creation time, then id.
func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Item], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Item], 0, len(r.items))
	for _, stored := range r.items {
		list = append(list, stored.projection())
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Metadata.CreatedAt.Equal(b.Metadata.CreatedAt) {
			return a.Metadata.CreatedAt.Before(b.Metadata.CreatedAt)
		}
		return a.Entity.ID < b.Entity.ID
	})
	return list, nil
}

func (s *storedItem) projection() *projection.Projection[*domain.Item] {
	return projection.New(s.item.Clone(), s.metadata.CreatedAt, s.metadata.UpdatedAt)
}
