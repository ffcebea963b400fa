package mapper

import (
	"time"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
)

// Actor is the transport form of a claimed identity.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// Session is what a client sees of its session. Token is only set when the session is created.
type Session struct {
	Token         string    `json:"token,omitempty"`
	Actor         *Actor    `json:"actor,omitempty"`
	CartCount     int       `json:"cartCount"`
	MessageCount  int       `json:"messageCount"`
	Home          string    `json:"home"`
	CreatedAt     time.Time `json:"createdAt"`
	Authenticated bool      `json:"authenticated"`
}

// SignInRequest claims an identity.
type SignInRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role" binding:"required"`
}

func FromActor(actor *identity.Actor) *Actor {
	if actor == nil {
		return nil
	}
	return &Actor{ID: actor.ID, Name: actor.Name, Email: actor.Email, Role: string(actor.Role)}
}

// FromDomain converts a session. Staff land on the operations board, everyone else on the catalog.
func FromDomain(session *domain.Session) Session {
	if session == nil {
		return Session{}
	}
	out := Session{
		Actor:         FromActor(session.Actor),
		CartCount:     session.Cart.TotalQuantity(),
		MessageCount:  len(session.Transcript),
		Home:          "catalog",
		CreatedAt:     session.CreatedAt,
		Authenticated: session.IsAuthenticated(),
	}
	if session.Actor != nil && session.Actor.Role.IsOperator() {
		out.Home = "operations"
	}
	return out
}

// FromCreated converts a freshly started session and exposes its token.
func FromCreated(session *domain.Session) Session {
	out := FromDomain(session)
	if session != nil {
		out.Token = session.ID
	}
	return out
}
