package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" pharmacist ")
	require.NoError(t, err)
	require.Equal(t, RolePharmacist, role)

	_, err = ParseRole("FULFILLMENT")
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = ParseRole("doctor")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestRoleCapabilities(t *testing.T) {
	require.False(t, RolePatient.CanManageInventory())
	require.True(t, RolePharmacist.CanManageInventory())
	require.True(t, RoleAdmin.CanManageInventory())
	require.False(t, RoleFulfillment.IsOperator())
}

func TestNewActor(t *testing.T) {
	actor, err := NewActor(" u1 ", " Asha ", "asha@example.com", RolePatient)
	require.NoError(t, err)
	require.Equal(t, "u1", actor.ID)
	require.Equal(t, "Asha", actor.Name)

	_, err = NewActor("", "x", "", RolePatient)
	require.ErrorIs(t, err, ErrEmptyActorID)

	_, err = NewActor("u2", "x", "", Role("GUEST"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestDisplayNameFromEmail(t *testing.T) {
	require.Equal(t, "asha", DisplayNameFromEmail("asha@example.com"))
	require.Equal(t, "plain", DisplayNameFromEmail("plain"))
}
