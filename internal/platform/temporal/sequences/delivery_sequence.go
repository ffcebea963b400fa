package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	fulfillmentactivities "github.com/Apurer/mediswift-api/internal/platform/temporal/activities/fulfillment"
)

// RunDeliverySequence ships a packed order and, after the courier leg, marks it delivered.
func RunDeliverySequence(ctx workflow.Context, orderID string, courierLeg time.Duration) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("delivery sequence started", "orderId", orderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)
	ref := fulfillmentactivities.OrderRef{OrderID: orderID}

	var status string
	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.MarkOutForDeliveryActivityName, ref).Get(ctx, &status); err != nil {
		logger.Error("delivery sequence failed to ship", "orderId", orderID, "error", err)
		return "", err
	}
	logger.Info("delivery sequence shipped", "orderId", orderID, "status", status)

	if courierLeg > 0 {
		if err := workflow.Sleep(ctx, courierLeg); err != nil {
			return status, err
		}
	}

	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.MarkDeliveredActivityName, ref).Get(ctx, &status); err != nil {
		logger.Error("delivery sequence failed to deliver", "orderId", orderID, "error", err)
		return "", err
	}
	logger.Info("delivery sequence completed", "orderId", orderID, "status", status)
	return status, nil
}
