package ports

import (
	"context"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
)

// SignInInput claims an identity for a session.
type SignInInput struct {
	SessionID string
	Name      string
	Email     string
	Role      string
}

// Service exposes session and identity use cases.
type Service interface {
	Start(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	SignIn(ctx context.Context, input SignInInput) (*domain.Session, error)
	SignOut(ctx context.Context, id string) (*domain.Session, error)
	CurrentActor(ctx context.Context, id string) (*identity.Actor, error)
	End(ctx context.Context, id string) error
}
