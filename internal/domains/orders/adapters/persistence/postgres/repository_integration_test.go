//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	catalogapp "github.com/Apurer/mediswift-api/internal/domains/catalog/application"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	"github.com/Apurer/mediswift-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("mediswift_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

// seededOrder checks out one of each seed medicine.
func seededOrder(t *testing.T, id, userID string, createdAt time.Time) *domain.Order {
	t.Helper()
	c := cart.New()
	for _, item := range catalogapp.SeedItems() {
		require.NoError(t, c.Add(item))
	}
	order, err := domain.NewOrderFromCart(c, identity.Actor{ID: userID, Role: identity.RolePatient}, id, createdAt)
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	order := seededOrder(t, "ABC123", "u1", created)
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.GetByID(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingVerification, got.Status)
	require.NotNil(t, got.PrescriptionURL)
	assert.Equal(t, domain.MockPrescriptionURL, *got.PrescriptionURL)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("47.20")))
	require.Len(t, got.Lines, 5)
	assert.Equal(t, "Crocin Advance", got.Lines[0].Item.Name)
	assert.Equal(t, "Baby Wipes", got.Lines[4].Item.Name)
	require.NotNil(t, got.Lines[2].Item.OriginalPrice)
	assert.True(t, got.Lines[2].Item.OriginalPrice.Equal(decimal.RequireFromString("15.00")))
	for i, line := range got.Lines {
		assert.Equal(t, order.Lines[i].Item.Stock, line.Item.Stock, "stock snapshot of line %d", i)
	}
	assert.Equal(t, 8, got.Lines[2].Item.Stock)
	assert.True(t, got.CreatedAt.Equal(created))

	require.ErrorIs(t, repo.Create(ctx, seededOrder(t, "ABC123", "u2", created)), ports.ErrDuplicateID)

	_, err = repo.GetByID(ctx, "NOPE00")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, seededOrder(t, "AAAAA1", "u1", base)))
	require.NoError(t, repo.Create(ctx, seededOrder(t, "AAAAA2", "u1", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, seededOrder(t, "AAAAA3", "u2", base.Add(2*time.Minute))))

	all, err := repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "AAAAA3", all[0].ID)

	mine, err := repo.List(ctx, ports.ListFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	approved, err := repo.List(ctx, ports.ListFilter{Status: domain.StatusApproved})
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestRepository_UpdateStatusCompareAndSwap(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, seededOrder(t, "RACE01", "u1", time.Now().UTC())))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for _, to := range []domain.Status{domain.StatusApproved, domain.StatusRejected, domain.StatusApproved} {
		wg.Add(1)
		go func(to domain.Status) {
			defer wg.Done()
			_, err := repo.UpdateStatus(ctx, "RACE01", domain.StatusPendingVerification, to, time.Now().UTC())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else if assert.ErrorIs(t, err, ports.ErrStatusConflict) {
				conflicts++
			}
		}(to)
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
	assert.Equal(t, 2, conflicts)

	_, err := repo.UpdateStatus(ctx, "NOPE00", domain.StatusApproved, domain.StatusPacked, time.Now())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	store := NewIdempotencyStore(db)
	ctx := context.Background()

	got, err := store.Get(ctx, "retry-1")
	require.NoError(t, err)
	require.Nil(t, got)

	record := ports.IdempotencyRecord{Key: "retry-1", SessionHash: "h1", OrderID: "A1B2C3", CreatedAt: time.Now().UTC()}
	_, err = store.Save(ctx, record)
	require.NoError(t, err)

	same, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, "A1B2C3", same.OrderID)

	other := record
	other.SessionHash = "h2"
	existing, err := store.Save(ctx, other)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "h1", existing.SessionHash)
}
