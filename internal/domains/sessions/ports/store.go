package ports

import (
	"context"
	"errors"

	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExists   = errors.New("session already exists")
)

// MutateFunc edits a session in place. It may run more than once, so it must not have side effects
// outside the session it is handed.
type MutateFunc func(session *domain.Session) error

// Store persists sessions. Update applies fn atomically with respect to other updates of the same session;
// when fn returns an error nothing is written and the error is returned unchanged.
type Store interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, id string, fn MutateFunc) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
