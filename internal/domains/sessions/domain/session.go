package domain

import (
	"errors"
	"time"

	assistant "github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
)

var ErrEmptySessionID = errors.New("session id is required")

// Session is the per-user context: who is acting, what is in the cart, and the chat transcript.
type Session struct {
	ID         string
	Actor      *identity.Actor
	Cart       *cart.Cart
	Transcript []assistant.Message
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New starts an anonymous session with an empty cart.
func New(id string, now time.Time) (*Session, error) {
	if id == "" {
		return nil, ErrEmptySessionID
	}
	return &Session{ID: id, Cart: cart.New(), CreatedAt: now, UpdatedAt: now}, nil
}

// IsAuthenticated reports whether an identity has been claimed.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Actor != nil
}

// SignIn attaches actor to the session.
func (s *Session) SignIn(actor identity.Actor) {
	s.Actor = &actor
}

// SignOut drops the actor. The cart and transcript stay.
func (s *Session) SignOut() {
	s.Actor = nil
}

// AppendMessages adds messages to the end of the transcript.
func (s *Session) AppendMessages(messages ...assistant.Message) {
	s.Transcript = append(s.Transcript, messages...)
}

// Clone deep copies the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Actor != nil {
		actor := *s.Actor
		clone.Actor = &actor
	}
	clone.Cart = s.Cart.Clone()
	clone.Transcript = append([]assistant.Message(nil), s.Transcript...)
	return &clone
}
