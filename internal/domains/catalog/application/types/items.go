package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/shared/projection"
)

// ItemProjection transports an item together with its persistence metadata.
type ItemProjection = projection.Projection[*domain.Item]

// ItemMutationInput carries optional item fields; nil means leave unchanged.
type ItemMutationInput struct {
	Name                 *string
	Brand                *string
	Price                *decimal.Decimal
	OriginalPrice        *decimal.Decimal
	ClearOriginalPrice   bool
	Stock                *int
	RequiresPrescription *bool
	Category             *string
	Description          *string
	ImageURL             *string
}

// CreateItemInput adds a new item. ID is generated when empty.
type CreateItemInput struct {
	Actor *identity.Actor
	ID    string
	ItemMutationInput
}

// UpdateItemInput edits an existing item.
type UpdateItemInput struct {
	Actor *identity.Actor
	ID    string
	ItemMutationInput
}

// DeleteItemInput removes an item.
type DeleteItemInput struct {
	Actor *identity.Actor
	ID    string
}

// ItemIdentifier addresses a single item.
type ItemIdentifier struct {
	ID string
}

// ListItemsInput filters the catalog by name/brand substring and category.
type ListItemsInput struct {
	Query    string
	Category string
}
