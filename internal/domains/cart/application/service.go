package application

import (
	"context"

	"github.com/Apurer/mediswift-api/internal/domains/cart/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/cart/ports"
	catalogtypes "github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
	sessiondomain "github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

// Service edits the cart held by a session.
type Service struct {
	sessions sessionports.Store
	items    ports.ItemReader
}

func NewService(sessions sessionports.Store, items ports.ItemReader) *Service {
	return &Service{sessions: sessions, items: items}
}

// AddItem snapshots the current catalog item into the cart.
func (s *Service) AddItem(ctx context.Context, input types.AddItemInput) (*types.CartView, error) {
	item, err := s.items.GetItem(ctx, catalogtypes.ItemIdentifier{ID: input.ItemID})
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Update(ctx, input.SessionID, func(session *sessiondomain.Session) error {
		return session.Cart.Add(item.Entity)
	})
	if err != nil {
		return nil, err
	}
	return types.NewCartView(session.Cart), nil
}

// UpdateLine sets a line quantity. Unknown lines are left alone.
func (s *Service) UpdateLine(ctx context.Context, input types.UpdateLineInput) (*types.CartView, error) {
	session, err := s.sessions.Update(ctx, input.SessionID, func(session *sessiondomain.Session) error {
		session.Cart.SetQuantity(input.ItemID, input.Quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return types.NewCartView(session.Cart), nil
}

// View returns the cart and its totals.
func (s *Service) View(ctx context.Context, sessionID string) (*types.CartView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return types.NewCartView(session.Cart), nil
}

var _ ports.Service = (*Service)(nil)
