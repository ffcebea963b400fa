package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	sessiondomain "github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
	"github.com/Apurer/mediswift-api/internal/shared/shortid"
)

const idAttempts = 5

// errEmptyCart aborts the checkout update without writing the session.
var errEmptyCart = errors.New("cart is empty")

// Service places orders from session carts and drives them through the lifecycle.
type Service struct {
	repo        ports.Repository
	sessions    sessionports.Store
	idempotency ports.IdempotencyStore
	locks       *keyedMutex
	now         func() time.Time
	newID       func() (string, error)
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIdempotencyStore enables replay of checkouts carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithIDGenerator overrides the order code generator.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, sessions sessionports.Store, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		locks:    newKeyedMutex(),
		now:      time.Now,
		newID:    func() (string, error) { return shortid.New(domain.IDLength) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the session cart into an order and empties the cart. An empty cart places nothing.
func (s *Service) Checkout(ctx context.Context, input types.CheckoutInput) (*types.CheckoutResult, error) {
	if input.IdempotencyKey == "" || s.idempotency == nil {
		return s.checkout(ctx, input.SessionID)
	}
	unlock := s.locks.Lock("checkout:" + input.IdempotencyKey)
	defer unlock()

	hash := sessionFingerprint(input.SessionID)
	record, err := s.idempotency.Get(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return s.replay(ctx, input.SessionID, hash, record)
	}

	result, err := s.checkout(ctx, input.SessionID)
	if err != nil || result.Order == nil {
		return result, err
	}
	_, err = s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         input.IdempotencyKey,
		SessionHash: hash,
		OrderID:     result.Order.ID,
		CreatedAt:   result.Order.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("order %s placed, remember idempotency key: %w", result.Order.ID, err)
	}
	return result, nil
}

func (s *Service) replay(ctx context.Context, sessionID, hash string, record *ports.IdempotencyRecord) (*types.CheckoutResult, error) {
	if record.SessionHash != hash {
		return nil, ports.ErrIdempotencyConflict
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsAuthenticated() {
		return nil, identity.ErrUnauthenticated
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, err
	}
	return &types.CheckoutResult{Order: order, Next: types.RouteAfterCheckout(session.Actor.Role), Replayed: true}, nil
}

func (s *Service) checkout(ctx context.Context, sessionID string) (*types.CheckoutResult, error) {
	var (
		snapshot *cart.Cart
		actor    identity.Actor
	)
	_, err := s.sessions.Update(ctx, sessionID, func(session *sessiondomain.Session) error {
		if !session.IsAuthenticated() {
			return identity.ErrUnauthenticated
		}
		actor = *session.Actor
		if session.Cart.IsEmpty() {
			return errEmptyCart
		}
		snapshot = session.Cart.Clone()
		session.Cart.Clear()
		return nil
	})
	switch {
	case errors.Is(err, errEmptyCart):
		return &types.CheckoutResult{Next: types.RouteAfterCheckout(actor.Role)}, nil
	case err != nil:
		return nil, err
	}

	order, err := s.place(ctx, snapshot, actor)
	if err != nil {
		if restoreErr := s.restoreCart(ctx, sessionID, snapshot); restoreErr != nil {
			return nil, errors.Join(err, fmt.Errorf("restore cart: %w", restoreErr))
		}
		return nil, err
	}
	return &types.CheckoutResult{Order: order, Next: types.RouteAfterCheckout(actor.Role)}, nil
}

func (s *Service) place(ctx context.Context, snapshot *cart.Cart, actor identity.Actor) (*domain.Order, error) {
	now := s.now()
	for attempt := 0; attempt < idAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, err
		}
		order, err := domain.NewOrderFromCart(snapshot, actor, id, now)
		if err != nil {
			return nil, mapError(err)
		}
		err = s.repo.Create(ctx, order)
		if errors.Is(err, ports.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return order, nil
	}
	return nil, fmt.Errorf("allocate order id: %w", ports.ErrDuplicateID)
}

// restoreCart puts the checked out lines back in front of whatever was added meanwhile.
func (s *Service) restoreCart(ctx context.Context, sessionID string, snapshot *cart.Cart) error {
	_, err := s.sessions.Update(ctx, sessionID, func(session *sessiondomain.Session) error {
		merged := snapshot.Lines()
		for i, line := range merged {
			if current, ok := session.Cart.Line(line.ItemID()); ok {
				merged[i].Quantity += current.Quantity
			}
		}
		for _, line := range session.Cart.Lines() {
			if _, ok := snapshot.Line(line.ItemID()); !ok {
				merged = append(merged, line)
			}
		}
		restored, err := cart.Restore(merged)
		if err != nil {
			return err
		}
		session.Cart = restored
		return nil
	})
	return err
}

// ListOrders returns the visible orders newest first. Patients only see their own.
func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	if input.Actor == nil {
		return nil, identity.ErrUnauthenticated
	}
	filter := ports.ListFilter{}
	if input.Status != "" {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Status = status
	}
	if input.Actor.Role == identity.RolePatient {
		filter.UserID = input.Actor.ID
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewestFirst(orders), nil
}

// GetOrder loads one order. Another patient's order reads as not found.
func (s *Service) GetOrder(ctx context.Context, input types.GetOrderInput) (*domain.Order, error) {
	if input.Actor == nil {
		return nil, identity.ErrUnauthenticated
	}
	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if input.Actor.Role == identity.RolePatient && order.UserID != input.Actor.ID {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// Transition moves an order along the lifecycle. Transitions of one order are serialized and
// persisted as a compare-and-swap on the previous status.
func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*domain.Order, error) {
	if input.Actor == nil {
		return nil, identity.ErrUnauthenticated
	}
	to, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	unlock := s.locks.Lock(input.OrderID)
	defer unlock()

	order, err := s.GetOrder(ctx, types.GetOrderInput{Actor: input.Actor, OrderID: input.OrderID})
	if err != nil {
		return nil, err
	}
	from := order.Status
	at := s.now()
	if err := order.TransitionTo(input.Actor.Role, to, at); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, order.ID, from, to, at)
}

// AuthorizeDispatch checks that an operator may hand a packed order to fulfillment.
func (s *Service) AuthorizeDispatch(ctx context.Context, input types.GetOrderInput) (*domain.Order, error) {
	if input.Actor == nil {
		return nil, identity.ErrUnauthenticated
	}
	if !input.Actor.Role.IsOperator() {
		return nil, ErrForbidden
	}
	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusPacked {
		return nil, fmt.Errorf("%w: order %s is %s", ErrNotDispatchable, order.ID, order.Status)
	}
	return order, nil
}

var _ ports.Service = (*Service)(nil)
