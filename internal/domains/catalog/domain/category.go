package domain

import (
	"errors"
	"strings"
)

// Category classifies catalog items.
type Category string

const (
	CategoryOTC              Category = "OTC"
	CategoryPrescriptionOnly Category = "PRESCRIPTION_ONLY"
	CategorySupplements      Category = "SUPPLEMENTS"
	CategoryBabyCare         Category = "BABY_CARE"
	CategoryDiabetesCare     Category = "DIABETES_CARE"
)

var ErrInvalidCategory = errors.New("item category is invalid")

var categoryLabels = map[Category]string{
	CategoryOTC:              "Over The Counter",
	CategoryPrescriptionOnly: "Prescription Only",
	CategorySupplements:      "Vitamins & Supplements",
	CategoryBabyCare:         "Baby Care",
	CategoryDiabetesCare:     "Diabetes Care",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryOTC,
		CategoryPrescriptionOnly,
		CategorySupplements,
		CategoryBabyCare,
		CategoryDiabetesCare,
	}
}

// ParseCategory accepts a category code, case-insensitively.
func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if !category.Valid() {
		return "", ErrInvalidCategory
	}
	return category, nil
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human readable category name.
func (c Category) Label() string {
	return categoryLabels[c]
}
