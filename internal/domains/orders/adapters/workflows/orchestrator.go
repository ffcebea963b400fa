package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	fulfillmentworkflows "github.com/Apurer/mediswift-api/internal/platform/temporal/workflows/fulfillment"
)

var (
	_ ports.FulfillmentOrchestrator = (*TemporalFulfillment)(nil)
	_ ports.FulfillmentOrchestrator = (*InlineFulfillment)(nil)
)

// TemporalFulfillment starts the delivery workflow on a Temporal cluster.
type TemporalFulfillment struct {
	client     client.Client
	taskQueue  string
	courierLeg time.Duration
}

// NewTemporalFulfillment wires a Temporal client into the orchestrator.
func NewTemporalFulfillment(c client.Client, courierLeg time.Duration) *TemporalFulfillment {
	return &TemporalFulfillment{client: c, taskQueue: fulfillmentworkflows.FulfillmentTaskQueue, courierLeg: courierLeg}
}

// DispatchOrder starts delivery and returns without waiting for it. Dispatching the same order twice
// joins the running workflow.
func (o *TemporalFulfillment) DispatchOrder(ctx context.Context, orderID string) error {
	if o == nil || o.client == nil {
		return errors.New("temporal fulfillment not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        FulfillmentWorkflowID(orderID),
		TaskQueue: o.taskQueue,
	}
	_, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		fulfillmentworkflows.FulfillmentWorkflowName,
		fulfillmentworkflows.FulfillmentWorkflowInput{OrderID: orderID, TraceID: workflowTraceID(ctx), CourierLeg: o.courierLeg},
	)
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	return err
}

// InlineFulfillment delivers immediately in-process, for tests and deployments without Temporal.
type InlineFulfillment struct {
	service ports.Service
}

// NewInlineFulfillment wraps the orders service for synchronous delivery.
func NewInlineFulfillment(service ports.Service) *InlineFulfillment {
	return &InlineFulfillment{service: service}
}

// DispatchOrder walks the order through the delivery states as the fulfillment actor.
func (o *InlineFulfillment) DispatchOrder(ctx context.Context, orderID string) error {
	if o == nil || o.service == nil {
		return errors.New("inline fulfillment not configured")
	}
	actor := identity.FulfillmentActor()
	for _, status := range []domain.Status{domain.StatusOutForDelivery, domain.StatusDelivered} {
		if _, err := o.service.Transition(ctx, types.TransitionInput{Actor: &actor, OrderID: orderID, Status: string(status)}); err != nil {
			return fmt.Errorf("deliver order %s: %w", orderID, err)
		}
	}
	return nil
}

// FulfillmentWorkflowID is deterministic per order so a dispatch is started at most once.
func FulfillmentWorkflowID(orderID string) string {
	return "order-fulfillment-" + orderID
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
