package types

import (
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
)

// Route tells the caller where to go after a use case.
type Route string

const (
	RouteCatalog    Route = "catalog"
	RouteOperations Route = "operations"
	RouteSignIn     Route = "sign-in"
)

// RouteAfterCheckout sends staff to the operations board and patients back to the catalog.
func RouteAfterCheckout(role identity.Role) Route {
	if role.IsOperator() {
		return RouteOperations
	}
	return RouteCatalog
}

// CheckoutInput turns the session cart into an order.
// A non-empty IdempotencyKey makes retries replay the order the first call placed.
type CheckoutInput struct {
	SessionID      string
	IdempotencyKey string
}

// CheckoutResult carries the placed order, nil when the cart was empty. Replayed is set when the
// order came from an earlier call with the same idempotency key.
type CheckoutResult struct {
	Order    *domain.Order
	Next     Route
	Replayed bool
}

// ListOrdersInput lists the orders visible to Actor, optionally narrowed to one status.
type ListOrdersInput struct {
	Actor  *identity.Actor
	Status string
}

// GetOrderInput addresses one order as seen by Actor.
type GetOrderInput struct {
	Actor   *identity.Actor
	OrderID string
}

// TransitionInput moves an order to Status on behalf of Actor.
type TransitionInput struct {
	Actor   *identity.Actor
	OrderID string
	Status  string
}
