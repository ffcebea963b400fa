package ports

import (
	"context"
)

// FulfillmentOrchestrator hands packed orders to the delivery collaborator.
type FulfillmentOrchestrator interface {
	DispatchOrder(ctx context.Context, orderID string) error
}
