package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
	"github.com/Apurer/mediswift-api/internal/shared/shortid"
)

const userIDLength = 9

// Service manages sessions and the identity claimed in them. Any claimed identity is accepted.
type Service struct {
	store     ports.Store
	newToken  func() string
	newUserID func() (string, error)
	now       func() time.Time
}

// NewService wires the session service with its store.
func NewService(store ports.Store) *Service {
	return &Service{
		store:    store,
		newToken: uuid.NewString,
		newUserID: func() (string, error) {
			id, err := shortid.New(userIDLength)
			return strings.ToLower(id), err
		},
		now: time.Now,
	}
}

// Start opens an anonymous session with an empty cart.
func (s *Service) Start(ctx context.Context) (*domain.Session, error) {
	session, err := domain.New(s.newToken(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// SignIn claims an identity. The display name falls back to the email local part.
func (s *Service) SignIn(ctx context.Context, input ports.SignInInput) (*domain.Session, error) {
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, mapError(err)
	}
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = identity.DisplayNameFromEmail(email)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name or email is required", ErrInvalidInput)
	}
	userID, err := s.newUserID()
	if err != nil {
		return nil, err
	}
	actor, err := identity.NewActor(userID, name, email, role)
	if err != nil {
		return nil, mapError(err)
	}
	return s.store.Update(ctx, input.SessionID, func(session *domain.Session) error {
		session.SignIn(*actor)
		return nil
	})
}

// SignOut drops the identity and keeps the cart.
func (s *Service) SignOut(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Update(ctx, id, func(session *domain.Session) error {
		session.SignOut()
		return nil
	})
}

// CurrentActor returns the claimed identity, or nil when the session is anonymous.
func (s *Service) CurrentActor(ctx context.Context, id string) (*identity.Actor, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Actor, nil
}

// End deletes the session.
func (s *Service) End(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
