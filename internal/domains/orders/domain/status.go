package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status enumerates order progression.
type Status string

const (
	StatusPendingVerification Status = "PENDING_VERIFICATION"
	StatusApproved            Status = "APPROVED"
	StatusRejected            Status = "REJECTED"
	StatusPacked              Status = "PACKED"
	StatusOutForDelivery      Status = "OUT_FOR_DELIVERY"
	StatusDelivered           Status = "DELIVERED"
)

var ErrInvalidStatus = errors.New("order status is invalid")

var statusLabels = map[Status]string{
	StatusPendingVerification: "Pending Verification",
	StatusApproved:            "Approved",
	StatusRejected:            "Rejected",
	StatusPacked:              "Packed",
	StatusOutForDelivery:      "Out for Delivery",
	StatusDelivered:           "Delivered",
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusPendingVerification,
		StatusApproved,
		StatusRejected,
		StatusPacked,
		StatusOutForDelivery,
		StatusDelivered,
	}
}

// ParseStatus accepts the wire name of a status, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human readable status name.
func (s Status) Label() string {
	return statusLabels[s]
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusDelivered
}
