package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	"github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/shared/projection"
)

// Service orchestrates the catalog use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

// NewService wires the catalog service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// CreateItem adds an item on behalf of an inventory manager.
func (s *Service) CreateItem(ctx context.Context, input types.CreateItemInput) (*types.ItemProjection, error) {
	if err := authorizeInventory(input.Actor); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	} else if _, err := s.repo.GetByID(ctx, id); err == nil {
		return nil, fmt.Errorf("%w: item %s already exists", ErrInvalidInput, id)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	item, err := buildItem(id, input.ItemMutationInput)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateItem applies a partial edit to an existing item.
func (s *Service) UpdateItem(ctx context.Context, input types.UpdateItemInput) (*types.ItemProjection, error) {
	if err := authorizeInventory(input.Actor); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	item := current.Entity.Clone()
	if err := applyMutation(item, input.ItemMutationInput); err != nil {
		return nil, mapError(err)
	}
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteItem removes an item. Orders keep their frozen snapshots.
func (s *Service) DeleteItem(ctx context.Context, input types.DeleteItemInput) error {
	if err := authorizeInventory(input.Actor); err != nil {
		return err
	}
	return mapError(s.repo.Delete(ctx, input.ID))
}

// GetItem loads a single item.
func (s *Service) GetItem(ctx context.Context, input types.ItemIdentifier) (*types.ItemProjection, error) {
	item, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// ListItems returns the items matching the query and category filter.
func (s *Service) ListItems(ctx context.Context, input types.ListItemsInput) ([]*types.ItemProjection, error) {
	var category domain.Category
	if raw := strings.TrimSpace(input.Category); raw != "" && !strings.EqualFold(raw, "ALL") {
		parsed, err := domain.ParseCategory(raw)
		if err != nil {
			return nil, mapError(err)
		}
		category = parsed
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*types.ItemProjection, 0, len(all))
	for _, p := range all {
		if category != "" && p.Entity.Category != category {
			continue
		}
		if !p.Entity.Matches(input.Query) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// LowStockCount counts items below the low stock threshold.
func (s *Service) LowStockCount(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return domain.LowStockCount(projection.Entities(all)), nil
}

func authorizeInventory(actor *identity.Actor) error {
	if actor == nil {
		return identity.ErrUnauthenticated
	}
	if !actor.Role.CanManageInventory() {
		return ErrForbidden
	}
	return nil
}

func buildItem(id string, input types.ItemMutationInput) (*domain.Item, error) {
	if input.Name == nil {
		return nil, domain.ErrEmptyName
	}
	if input.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrInvalidInput)
	}
	if input.Category == nil {
		return nil, domain.ErrInvalidCategory
	}
	item := &domain.Item{ID: id}
	if err := applyMutation(item, input); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func applyMutation(target *domain.Item, input types.ItemMutationInput) error {
	if input.Name != nil {
		target.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		target.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Price != nil {
		target.Price = *input.Price
	}
	if input.ClearOriginalPrice {
		target.OriginalPrice = nil
	}
	if input.OriginalPrice != nil {
		original := *input.OriginalPrice
		target.OriginalPrice = &original
	}
	if input.Stock != nil {
		target.Stock = *input.Stock
	}
	if input.RequiresPrescription != nil {
		target.RequiresPrescription = *input.RequiresPrescription
	}
	if input.Category != nil {
		category, err := domain.ParseCategory(*input.Category)
		if err != nil {
			return err
		}
		target.Category = category
	}
	if input.Description != nil {
		target.Description = *input.Description
	}
	if input.ImageURL != nil {
		target.ImageURL = *input.ImageURL
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
