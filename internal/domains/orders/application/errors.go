package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrForbidden signals the actor may not perform the operation.
	ErrForbidden = domain.ErrForbidden
	// ErrNotDispatchable signals the order is not packed.
	ErrNotDispatchable = errors.New("only packed orders can be dispatched")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyUserID) ||
		errors.Is(err, domain.ErrNoLines) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
