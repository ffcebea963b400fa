package mapper

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalog "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
)

func TestFromDomain_CartBadgeAndHome(t *testing.T) {
	session, err := domain.New("token-1", time.Now())
	require.NoError(t, err)
	item := &catalog.Item{ID: "1", Name: "Crocin Advance", Price: decimal.RequireFromString("1.50"), Category: catalog.CategoryOTC}
	require.NoError(t, session.Cart.Add(item))
	require.NoError(t, session.Cart.Add(item))

	view := FromDomain(session)
	require.Equal(t, 2, view.CartCount)
	require.Equal(t, "catalog", view.Home)
	require.False(t, view.Authenticated)
	require.Empty(t, view.Token)

	session.SignIn(identity.Actor{ID: "abc", Name: "Ana", Role: identity.RolePharmacist})
	view = FromDomain(session)
	require.Equal(t, "operations", view.Home)
	require.Equal(t, "PHARMACIST", view.Actor.Role)

	require.Equal(t, "token-1", FromCreated(session).Token)
}
