package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/mediswift-api/internal/domains/orders/ports"
)

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore()

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.Nil(t, got)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", SessionHash: "h1", OrderID: "A1B2C3"})
	require.NoError(t, err)
	require.False(t, saved.CreatedAt.IsZero())

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", SessionHash: "h1", OrderID: "A1B2C3"})
	require.NoError(t, err)
	require.Equal(t, saved.CreatedAt, again.CreatedAt)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", SessionHash: "h2", OrderID: "ZZZZZZ"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "A1B2C3", existing.OrderID)

	got, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "h1", got.SessionHash)
}
