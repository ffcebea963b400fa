package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	cartmapper "github.com/Apurer/mediswift-api/internal/domains/cart/adapters/http/mapper"
	catalog "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
)

// Order is the transport representation of an order.
type Order struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"userId"`
	Lines                []cartmapper.Line `json:"lines"`
	TotalAmount          decimal.Decimal   `json:"totalAmount"`
	TotalQuantity        int               `json:"totalQuantity"`
	Currency             string            `json:"currency"`
	TotalLabel           string            `json:"totalLabel"`
	Status               string            `json:"status"`
	StatusLabel          string            `json:"statusLabel"`
	RequiresPrescription bool              `json:"requiresPrescription"`
	PrescriptionURL      *string           `json:"prescriptionUrl,omitempty"`
	NextStatuses         []string          `json:"nextStatuses"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// CheckoutResponse is returned by the checkout call. Order is absent when the cart was empty.
type CheckoutResponse struct {
	Order   *Order `json:"order,omitempty"`
	Next    string `json:"next"`
	Message string `json:"message"`
}

// TransitionRequest is the body of a status change.
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// FromDomain converts an order as seen by viewer; nextStatuses lists what viewer may do next.
func FromDomain(order *domain.Order, viewer identity.Role) Order {
	next := []string{}
	for _, status := range domain.NextStatuses(viewer, order.Status) {
		next = append(next, string(status))
	}
	return Order{
		ID:                   order.ID,
		UserID:               order.UserID,
		Lines:                cartmapper.FromLines(order.Lines),
		TotalAmount:          order.TotalAmount,
		TotalQuantity:        order.TotalQuantity(),
		Currency:             catalog.PriceCurrency.String(),
		TotalLabel:           catalog.FormatAmount(order.TotalAmount),
		Status:               string(order.Status),
		StatusLabel:          order.Status.Label(),
		RequiresPrescription: order.RequiresPrescription(),
		PrescriptionURL:      order.PrescriptionURL,
		NextStatuses:         next,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// FromDomainList converts a list of orders for viewer.
func FromDomainList(orders []*domain.Order, viewer identity.Role) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomain(order, viewer))
	}
	return out
}

// FromCheckoutResult converts a checkout outcome for viewer.
func FromCheckoutResult(result *types.CheckoutResult, viewer identity.Role) CheckoutResponse {
	resp := CheckoutResponse{Next: string(result.Next), Message: "Cart is empty."}
	if result.Order == nil {
		return resp
	}
	order := FromDomain(result.Order, viewer)
	resp.Order = &order
	if result.Order.Status == domain.StatusPendingVerification {
		resp.Message = "Order Placed! Please wait for Pharmacist Verification."
	} else {
		resp.Message = "Order Placed Successfully!"
	}
	return resp
}
