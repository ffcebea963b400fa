package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
)

const (
	// IDLength is the length of the generated order code.
	IDLength = 6
	// MockPrescriptionURL stands in for an uploaded prescription.
	MockPrescriptionURL = "mock_prescription.pdf"
)

var (
	ErrEmptyID     = errors.New("order id must not be empty")
	ErrEmptyUserID = errors.New("order user id must not be empty")
	ErrNoLines     = errors.New("order must contain at least one line")
)

// Order is a frozen cart snapshot moving through the fulfillment lifecycle.
type Order struct {
	ID              string
	UserID          string
	Lines           []cart.Line
	TotalAmount     decimal.Decimal
	Status          Status
	PrescriptionURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	// Seq is the placement sequence assigned by the repository; later checkouts get larger values.
	Seq int64
}

// NewOrderFromCart builds the order for a checkout. Orders holding prescription-only lines wait for
// verification; the rest start approved.
func NewOrderFromCart(c *cart.Cart, actor identity.Actor, id string, now time.Time) (*Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrNoLines
	}
	order := &Order{
		ID:          id,
		UserID:      actor.ID,
		Lines:       c.Lines(),
		TotalAmount: c.TotalAmount(),
		Status:      StatusApproved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.RequiresPrescription() {
		url := MockPrescriptionURL
		order.Status = StatusPendingVerification
		order.PrescriptionURL = &url
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyID
	}
	if o.UserID == "" {
		return ErrEmptyUserID
	}
	if len(o.Lines) == 0 {
		return ErrNoLines
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// RequiresPrescription reports whether any line needs a prescription.
func (o *Order) RequiresPrescription() bool {
	return cart.LinesRequirePrescription(o.Lines)
}

// TotalQuantity sums line quantities.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// TransitionTo moves the order to status on behalf of role. The order is untouched on error.
func (o *Order) TransitionTo(role identity.Role, status Status, at time.Time) error {
	if err := CanTransition(role, o.Status, status); err != nil {
		return err
	}
	o.Status = status
	o.UpdatedAt = at
	return nil
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = make([]cart.Line, len(o.Lines))
	for i, line := range o.Lines {
		clone.Lines[i] = line.Clone()
	}
	if o.PrescriptionURL != nil {
		url := *o.PrescriptionURL
		clone.PrescriptionURL = &url
	}
	return &clone
}
