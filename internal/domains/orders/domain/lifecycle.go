package domain

import (
	"errors"
	"fmt"
	"slices"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
)

// ErrForbidden is returned when the transition exists but the role may not perform it.
var ErrForbidden = errors.New("role is not allowed to perform this transition")

// IllegalTransitionError is returned for a status pair outside the lifecycle table.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal order transition from %s to %s", e.From, e.To)
}

type edge struct {
	from Status
	to   Status
}

var (
	operatorRoles    = []identity.Role{identity.RolePharmacist, identity.RoleAdmin}
	fulfillmentRoles = []identity.Role{identity.RoleFulfillment}
)

// transitions is the whole lifecycle. The delivery edges belong to the fulfillment collaborator only.
var transitions = map[edge][]identity.Role{
	{StatusPendingVerification, StatusApproved}: operatorRoles,
	{StatusPendingVerification, StatusRejected}: operatorRoles,
	{StatusApproved, StatusPacked}:              operatorRoles,
	{StatusPacked, StatusOutForDelivery}:        fulfillmentRoles,
	{StatusOutForDelivery, StatusDelivered}:     fulfillmentRoles,
}

// CanTransition decides whether role may move an order from one status to another.
func CanTransition(role identity.Role, from, to Status) error {
	roles, ok := transitions[edge{from: from, to: to}]
	if !ok {
		return &IllegalTransitionError{From: from, To: to}
	}
	if !slices.Contains(roles, role) {
		return ErrForbidden
	}
	return nil
}

// NextStatuses lists the statuses role may move an order in from to, in lifecycle order.
func NextStatuses(role identity.Role, from Status) []Status {
	var next []Status
	for _, to := range Statuses() {
		if CanTransition(role, from, to) == nil {
			next = append(next, to)
		}
	}
	return next
}
