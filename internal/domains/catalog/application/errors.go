package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated an item invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrForbidden signals the actor may not manage inventory.
	ErrForbidden = errors.New("actor is not allowed to manage inventory")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrOriginalBelowPrice) ||
		errors.Is(err, domain.ErrInvalidCategory) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
