//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/mediswift-api/test/pact"

	pharmacyserver "github.com/Apurer/mediswift-api/go"
	assistantapp "github.com/Apurer/mediswift-api/internal/domains/assistant/application"
	cartapp "github.com/Apurer/mediswift-api/internal/domains/cart/application"
	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	catalogmemory "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/mediswift-api/internal/domains/catalog/application"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	ordersmemory "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/mediswift-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	reportingapp "github.com/Apurer/mediswift-api/internal/domains/reporting/application"
	sessionmemory "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/memory"
	sessionsapp "github.com/Apurer/mediswift-api/internal/domains/sessions/application"
	sessiondomain "github.com/Apurer/mediswift-api/internal/domains/sessions/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestMediSwiftProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StatePendingOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedPendingOrder(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	mu       sync.RWMutex
	router   http.Handler
	sessions *sessionmemory.Store
	orders   *ordersmemory.Repository
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

// reset rebuilds every store so each interaction starts from the seeded catalog only.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	items := catalogmemory.NewRepository()
	store := sessionmemory.NewStore()
	orderRepo := ordersmemory.NewRepository()

	catalog := catalogapp.NewService(items)
	_, err := catalog.Seed(context.Background())
	require.NoError(t, err)
	sessions := sessionsapp.NewService(store)
	orders := ordersapp.NewService(orderRepo, store)

	handlers := pharmacyserver.ApiHandleFunctions{
		SessionAPI:   pharmacyserver.NewSessionAPI(sessions),
		CatalogAPI:   pharmacyserver.NewCatalogAPI(catalog, sessions),
		CartAPI:      pharmacyserver.NewCartAPI(cartapp.NewService(store, catalog)),
		OrderAPI:     pharmacyserver.NewOrderAPI(orders, sessions, ordersworkflows.NewInlineFulfillment(orders)),
		DashboardAPI: pharmacyserver.NewDashboardAPI(reportingapp.NewService(orderRepo, items), sessions),
		AssistantAPI: pharmacyserver.NewAssistantAPI(assistantapp.NewService(store, nil)),
	}
	router := gin.New()
	router.Use(gin.Recovery())

	a.mu.Lock()
	defer a.mu.Unlock()
	a.router = pharmacyserver.NewRouterWithGinEngine(router, handlers)
	a.sessions = store
	a.orders = orderRepo
}

func (a *contractProviderApp) seedPendingOrder(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	a.mu.RLock()
	store, orders := a.sessions, a.orders
	a.mu.RUnlock()

	now := time.Now()
	session, err := sessiondomain.New(pacttest.PharmacistToken, now)
	require.NoError(t, err)
	session.SignIn(identity.Actor{ID: pacttest.PharmacistActorID, Name: "Pact Pharmacist", Role: identity.RolePharmacist})
	require.NoError(t, store.Create(ctx, session))

	basket := cart.New()
	require.NoError(t, basket.Add(catalogapp.SeedItems()[1]))
	order, err := orderdomain.NewOrderFromCart(basket, identity.Actor{ID: pacttest.PatientActorID, Role: identity.RolePatient}, pacttest.PendingOrderID, now)
	require.NoError(t, err)
	require.NoError(t, orders.Create(ctx, order))
}
