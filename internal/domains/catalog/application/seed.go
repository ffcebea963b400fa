package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
)

// SeedItems returns the starter catalog.
func SeedItems() []*domain.Item {
	vitaminOriginal := decimal.RequireFromString("15.00")
	return []*domain.Item{
		{
			ID:          "1",
			Name:        "Crocin Advance",
			Brand:       "GSK",
			Price:       decimal.RequireFromString("1.50"),
			Stock:       120,
			Category:    domain.CategoryOTC,
			Description: "Paracetamol 650mg for fever",
			ImageURL:    "https://images.unsplash.com/photo-1584017911766-d451b3d0e843?auto=format&fit=crop&q=80&w=400",
		},
		{
			ID:                   "2",
			Name:                 "Atorvastatin 10mg",
			Brand:                "Sun Pharma",
			Price:                decimal.RequireFromString("5.20"),
			Stock:                45,
			RequiresPrescription: true,
			Category:             domain.CategoryPrescriptionOnly,
			Description:          "Cholesterol lowering",
			ImageURL:             "https://images.unsplash.com/photo-1587854692152-cbe660dbde88?auto=format&fit=crop&q=80&w=400",
		},
		{
			ID:            "3",
			Name:          "Vitamin D3",
			Brand:         "HealthKart",
			Price:         decimal.RequireFromString("12.00"),
			OriginalPrice: &vitaminOriginal,
			Stock:         8,
			Category:      domain.CategorySupplements,
			Description:   "Bone health",
			ImageURL:      "https://images.unsplash.com/photo-1550572017-edd951aa8f72?auto=format&fit=crop&q=80&w=400",
		},
		{
			ID:                   "4",
			Name:                 "Insulin Pen",
			Brand:                "Novo Nordisk",
			Price:                decimal.RequireFromString("25.00"),
			Stock:                5,
			RequiresPrescription: true,
			Category:             domain.CategoryDiabetesCare,
			Description:          "Insulin delivery device",
			ImageURL:             "https://images.unsplash.com/photo-1579165466741-7f35a4755657?auto=format&fit=crop&q=80&w=400",
		},
		{
			ID:          "5",
			Name:        "Baby Wipes",
			Brand:       "Pampers",
			Price:       decimal.RequireFromString("3.50"),
			Stock:       200,
			Category:    domain.CategoryBabyCare,
			Description: "Gentle wipes",
			ImageURL:    "https://images.unsplash.com/photo-1622483767028-3f66f32aef97?auto=format&fit=crop&q=80&w=400",
		},
	}
}

// Seed stores the starter catalog when the repository is empty.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	items := SeedItems()
	for _, item := range items {
		if _, err := s.repo.Save(ctx, item); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}
