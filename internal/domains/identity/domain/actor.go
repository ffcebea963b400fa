package domain

import (
	"errors"
	"strings"
)

// Role is the closed set of roles an actor can hold.
type Role string

const (
	RolePatient    Role = "PATIENT"
	RolePharmacist Role = "PHARMACIST"
	RoleAdmin      Role = "ADMIN"
	// RoleFulfillment belongs to the delivery collaborator and cannot be claimed at sign-in.
	RoleFulfillment Role = "FULFILLMENT"
)

var (
	ErrInvalidRole  = errors.New("role is invalid")
	ErrEmptyActorID = errors.New("actor id is required")

	// ErrUnauthenticated signals that the operation needs a signed-in actor.
	ErrUnauthenticated = errors.New("sign-in required")
)

// ParseRole accepts the roles a person may claim when signing in.
func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToUpper(strings.TrimSpace(raw))); role {
	case RolePatient, RolePharmacist, RoleAdmin:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RolePharmacist, RoleAdmin, RoleFulfillment:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the role belongs to pharmacy staff.
func (r Role) IsOperator() bool {
	return r == RolePharmacist || r == RoleAdmin
}

// CanManageInventory reports whether the role may create, edit or delete catalog items.
func (r Role) CanManageInventory() bool {
	return r.IsOperator()
}

// Actor is the identity a session acts as.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// NewActor validates and constructs an Actor.
func NewActor(id, name, email string, role Role) (*Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyActorID
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return &Actor{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Role:  role,
	}, nil
}

// FulfillmentActor is the system identity used by the delivery workflow.
func FulfillmentActor() Actor {
	return Actor{ID: "fulfillment", Name: "Fulfillment", Role: RoleFulfillment}
}

// DisplayNameFromEmail returns the local part of an email address.
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
