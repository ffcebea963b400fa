package fulfillment

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	ordertypes "github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/mediswift-api/internal/domains/orders/ports"
)

const (
	// MarkOutForDeliveryActivityName hands a packed order to the courier.
	MarkOutForDeliveryActivityName = "orders.activities.MarkOutForDelivery"
	// MarkDeliveredActivityName closes the order once the courier confirms delivery.
	MarkDeliveredActivityName = "orders.activities.MarkDelivered"

	refusedErrorType = "OrderTransitionRefused"
)

// OrderRef addresses the order an activity works on.
type OrderRef struct {
	OrderID string
}

// Activities advance orders on behalf of the fulfillment collaborator.
type Activities struct {
	orders orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(orders orderports.Service) *Activities {
	return &Activities{orders: orders}
}

// MarkOutForDelivery moves a packed order to OUT_FOR_DELIVERY.
func (a *Activities) MarkOutForDelivery(ctx context.Context, input OrderRef) (string, error) {
	return a.advance(ctx, input.OrderID, orderdomain.StatusOutForDelivery)
}

// MarkDelivered moves an order out for delivery to DELIVERED.
func (a *Activities) MarkDelivered(ctx context.Context, input OrderRef) (string, error) {
	return a.advance(ctx, input.OrderID, orderdomain.StatusDelivered)
}

// advance is idempotent: an order already in the target status counts as done, so retried
// attempts after a lost acknowledgement succeed.
func (a *Activities) advance(ctx context.Context, orderID string, to orderdomain.Status) (string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		logger.Error("fulfillment activity not initialized", "orderId", orderID)
		return "", errors.New("fulfillment activity not initialized")
	}
	actor := identity.FulfillmentActor()
	logger.Info("fulfillment activity started", "orderId", orderID, "to", string(to))
	order, err := a.orders.Transition(ctx, ordertypes.TransitionInput{Actor: &actor, OrderID: orderID, Status: string(to)})
	if err == nil {
		logger.Info("fulfillment activity completed", "orderId", orderID, "status", string(order.Status))
		return string(order.Status), nil
	}

	var illegal *orderdomain.IllegalTransitionError
	if errors.As(err, &illegal) && illegal.From == to {
		logger.Info("order already advanced; skipping", "orderId", orderID, "status", string(to))
		return string(to), nil
	}
	logger.Error("fulfillment activity failed", "orderId", orderID, "to", string(to), "error", err)
	if errors.As(err, &illegal) || errors.Is(err, orderdomain.ErrForbidden) || errors.Is(err, orderports.ErrNotFound) {
		return "", temporal.NewNonRetryableApplicationError(err.Error(), refusedErrorType, err)
	}
	return "", err
}
