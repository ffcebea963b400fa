package application

import (
	"errors"
	"fmt"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
)

var (
	// ErrInvalidInput signals the sign-in request was malformed.
	ErrInvalidInput = errors.New("invalid session input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, identity.ErrInvalidRole) || errors.Is(err, identity.ErrEmptyActorID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
