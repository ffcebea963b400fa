package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
)

// Item is the transport representation of a catalog item.
type Item struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Brand                string           `json:"brand"`
	Price                decimal.Decimal  `json:"price"`
	OriginalPrice        *decimal.Decimal `json:"originalPrice,omitempty"`
	DiscountPercent      int              `json:"discountPercent,omitempty"`
	Currency             string           `json:"currency"`
	PriceLabel           string           `json:"priceLabel"`
	Stock                int              `json:"stock"`
	LowStock             bool             `json:"lowStock"`
	RequiresPrescription bool             `json:"requiresPrescription"`
	Category             string           `json:"category"`
	CategoryLabel        string           `json:"categoryLabel"`
	Description          string           `json:"description,omitempty"`
	ImageURL             string           `json:"imageUrl,omitempty"`
	CreatedAt            *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt            *time.Time       `json:"updatedAt,omitempty"`
}

// MutationItem is the request body for creating or editing an item.
type MutationItem struct {
	ID                   string           `json:"id,omitempty"`
	Name                 *string          `json:"name,omitempty"`
	Brand                *string          `json:"brand,omitempty"`
	Price                *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice        *decimal.Decimal `json:"originalPrice,omitempty"`
	ClearOriginalPrice   bool             `json:"clearOriginalPrice,omitempty"`
	Stock                *int             `json:"stock,omitempty"`
	RequiresPrescription *bool            `json:"requiresPrescription,omitempty"`
	Category             *string          `json:"category,omitempty"`
	Description          *string          `json:"description,omitempty"`
	ImageURL             *string          `json:"imageUrl,omitempty"`
}

// ToMutationInput converts the request body into the application input.
func ToMutationInput(payload MutationItem) types.ItemMutationInput {
	return types.ItemMutationInput{
		Name:                 payload.Name,
		Brand:                payload.Brand,
		Price:                payload.Price,
		OriginalPrice:        payload.OriginalPrice,
		ClearOriginalPrice:   payload.ClearOriginalPrice,
		Stock:                payload.Stock,
		RequiresPrescription: payload.RequiresPrescription,
		Category:             payload.Category,
		Description:          payload.Description,
		ImageURL:             payload.ImageURL,
	}
}

// FromDomain converts an item without persistence metadata.
func FromDomain(item *domain.Item) Item {
	if item == nil {
		return Item{}
	}
	out := Item{
		ID:                   item.ID,
		Name:                 item.Name,
		Brand:                item.Brand,
		Price:                item.Price,
		DiscountPercent:      item.DiscountPercent(),
		Currency:             domain.PriceCurrency.String(),
		PriceLabel:           domain.FormatAmount(item.Price),
		Stock:                item.Stock,
		LowStock:             item.IsLowStock(),
		RequiresPrescription: item.RequiresPrescription,
		Category:             string(item.Category),
		CategoryLabel:        item.Category.Label(),
		Description:          item.Description,
		ImageURL:             item.ImageURL,
	}
	if item.OriginalPrice != nil {
		original := *item.OriginalPrice
		out.OriginalPrice = &original
	}
	return out
}

// FromProjection converts an item projection to its transport form.
func FromProjection(p *types.ItemProjection) Item {
	if p == nil {
		return Item{}
	}
	out := FromDomain(p.Entity)
	if !p.Metadata.CreatedAt.IsZero() {
		created := p.Metadata.CreatedAt
		out.CreatedAt = &created
	}
	if !p.Metadata.UpdatedAt.IsZero() {
		updated := p.Metadata.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

// FromProjectionList converts a list of projections.
func FromProjectionList(list []*types.ItemProjection) []Item {
	out := make([]Item, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		out = append(out, FromProjection(p))
	}
	return out
}
