package fulfillment

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/mediswift-api/internal/platform/temporal/sequences"
)

const (
	// FulfillmentWorkflowName is the public identifier for registering the workflow.
	FulfillmentWorkflowName = "orders.workflows.Fulfillment"
	// FulfillmentTaskQueue is the queue consumed by the worker delivering orders.
	FulfillmentTaskQueue = "ORDER_FULFILLMENT"
	// DefaultCourierLeg is how long a parcel spends out for delivery.
	DefaultCourierLeg = 30 * time.Minute
)

// FulfillmentWorkflowInput names the packed order to deliver.
type FulfillmentWorkflowInput struct {
	OrderID    string
	TraceID    string
	CourierLeg time.Duration
}

// FulfillmentResult reports where the order ended up.
type FulfillmentResult struct {
	OrderID string
	Status  string
}

// FulfillmentWorkflow drives a packed order through OUT_FOR_DELIVERY to DELIVERED.
func FulfillmentWorkflow(ctx workflow.Context, input FulfillmentWorkflowInput) (*FulfillmentResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("FulfillmentWorkflow started", withTraceID(input.TraceID, "orderId", input.OrderID)...)
	status, err := sequences.RunDeliverySequence(ctx, input.OrderID, input.CourierLeg)
	if err != nil {
		logger.Error("FulfillmentWorkflow failed", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("FulfillmentWorkflow completed", withTraceID(input.TraceID, "orderId", input.OrderID, "status", status)...)
	return &FulfillmentResult{OrderID: input.OrderID, Status: status}, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
