package pharmacyserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	ordermapper "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
	apierrors "github.com/Apurer/mediswift-api/internal/shared/errors"
)

// OrderAPI wires HTTP transport with checkout, the order lifecycle and fulfillment dispatch.
type OrderAPI struct {
	service     orderports.Service
	sessions    sessionports.Service
	fulfillment orderports.FulfillmentOrchestrator
}

func NewOrderAPI(service orderports.Service, sessions sessionports.Service, fulfillment orderports.FulfillmentOrchestrator) OrderAPI {
	return OrderAPI{service: service, sessions: sessions, fulfillment: fulfillment}
}

// Post /v1/checkout
// Turns the session cart into an order
func (api *OrderAPI) Checkout(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	result, err := api.service.Checkout(c.Request.Context(), ordertypes.CheckoutInput{
		SessionID:      token,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Order == nil || result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, ordermapper.FromCheckoutResult(result, viewerRole(actor)))
}

// Get /v1/orders
// Staff see every order, patients their own, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	var status *string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.Request.URL.Query(), &status); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := ordertypes.ListOrdersInput{Actor: actor}
	if status != nil {
		input.Status = *status
	}
	orders, err := api.service.ListOrders(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainList(orders, viewerRole(actor)))
}

// Get /v1/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	orderID, ok := bindPathID(c, "orderId")
	if !ok {
		return
	}
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), ordertypes.GetOrderInput{Actor: actor, OrderID: orderID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomain(order, viewerRole(actor)))
}

// Post /v1/orders/:orderId/transitions
// Moves an order along its lifecycle
func (api *OrderAPI) Transition(c *gin.Context) {
	orderID, ok := bindPathID(c, "orderId")
	if !ok {
		return
	}
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	var payload ordermapper.TransitionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.Transition(c.Request.Context(), ordertypes.TransitionInput{
		Actor:   actor,
		OrderID: orderID,
		Status:  payload.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomain(order, viewerRole(actor)))
}

// Post /v1/orders/:orderId/dispatch
// Hands a packed order to the delivery collaborator
func (api *OrderAPI) Dispatch(c *gin.Context) {
	orderID, ok := bindPathID(c, "orderId")
	if !ok {
		return
	}
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	order, err := api.service.AuthorizeDispatch(ctx, ordertypes.GetOrderInput{Actor: actor, OrderID: orderID})
	if err != nil {
		respondError(c, err)
		return
	}
	if api.fulfillment == nil {
		respondProblem(c, apierrors.ErrInternal.WithDetail("fulfillment is not configured"))
		return
	}
	if err := api.fulfillment.DispatchOrder(ctx, order.ID); err != nil {
		respondError(c, err)
		return
	}
	// Inline fulfillment has already moved the order on; a workflow may not have started yet.
	current, err := api.service.GetOrder(ctx, ordertypes.GetOrderInput{Actor: actor, OrderID: order.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ordermapper.FromDomain(current, viewerRole(actor)))
}
