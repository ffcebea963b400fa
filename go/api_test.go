package pharmacyserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	assistantmapper "github.com/Apurer/mediswift-api/internal/domains/assistant/adapters/http/mapper"
	assistantapp "github.com/Apurer/mediswift-api/internal/domains/assistant/application"
	assistantdomain "github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
	cartmapper "github.com/Apurer/mediswift-api/internal/domains/cart/adapters/http/mapper"
	cartapp "github.com/Apurer/mediswift-api/internal/domains/cart/application"
	catalogmapper "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/http/mapper"
	catalogmemory "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/mediswift-api/internal/domains/catalog/application"
	ordermapper "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/http/mapper"
	ordersmemory "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/mediswift-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/mediswift-api/internal/domains/orders/application"
	reportingmapper "github.com/Apurer/mediswift-api/internal/domains/reporting/adapters/http/mapper"
	reportingapp "github.com/Apurer/mediswift-api/internal/domains/reporting/application"
	sessionmapper "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/http/mapper"
	sessionmemory "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/memory"
	sessionapp "github.com/Apurer/mediswift-api/internal/domains/sessions/application"
	apierrors "github.com/Apurer/mediswift-api/internal/shared/errors"
)

type failingModel struct{}

func (failingModel) Generate(context.Context, string) (string, error) {
	return "", errors.New("upstream unavailable")
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	items := catalogmemory.NewRepository()
	store := sessionmemory.NewStore()
	orderRepo := ordersmemory.NewRepository()

	catalog := catalogapp.NewService(items)
	_, err := catalog.Seed(context.Background())
	require.NoError(t, err)
	sessions := sessionapp.NewService(store)
	orders := ordersapp.NewService(orderRepo, store, ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))

	handlers := ApiHandleFunctions{
		SessionAPI:   NewSessionAPI(sessions),
		CatalogAPI:   NewCatalogAPI(catalog, sessions),
		CartAPI:      NewCartAPI(cartapp.NewService(store, catalog)),
		OrderAPI:     NewOrderAPI(orders, sessions, workflows.NewInlineFulfillment(orders)),
		DashboardAPI: NewDashboardAPI(reportingapp.NewService(orderRepo, items), sessions),
		AssistantAPI: NewAssistantAPI(assistantapp.NewService(store, failingModel{})),
	}
	return NewRouterWithGinEngine(gin.New(), handlers)
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(SessionHeader, token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func startSession(t *testing.T, router http.Handler, role string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode[sessionmapper.Session](t, w).Token
	require.NotEmpty(t, token)
	if role != "" {
		w = do(t, router, http.MethodPost, "/v1/sessions/current/sign-in", token,
			sessionmapper.SignInRequest{Email: role + "@mediswift.test", Role: role})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	return token
}

func TestPrescriptionOrderFlow(t *testing.T) {
	router := newTestRouter(t)
	patient := startSession(t, router, "")

	w := do(t, router, http.MethodPost, "/v1/cart/items", patient, cartmapper.AddItemRequest{ItemID: "2"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/v1/checkout", patient, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	problem := decode[apierrors.ProblemDetail](t, w)
	require.Equal(t, "sign-in", problem.Extensions["redirect"])

	w = do(t, router, http.MethodPost, "/v1/sessions/current/sign-in", patient,
		sessionmapper.SignInRequest{Email: "ravi@mediswift.test", Role: "patient"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[sessionmapper.Session](t, w).CartCount)

	w = do(t, router, http.MethodPost, "/v1/checkout", patient, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	checkout := decode[ordermapper.CheckoutResponse](t, w)
	require.Equal(t, "PENDING_VERIFICATION", checkout.Order.Status)
	require.True(t, checkout.Order.TotalAmount.Equal(decimal.RequireFromString("5.20")))
	require.NotNil(t, checkout.Order.PrescriptionURL)
	require.Equal(t, "Order Placed! Please wait for Pharmacist Verification.", checkout.Message)
	orderPath := "/v1/orders/" + checkout.Order.ID

	w = do(t, router, http.MethodGet, "/v1/cart", patient, nil)
	require.Empty(t, decode[cartmapper.Cart](t, w).Lines)

	w = do(t, router, http.MethodPost, orderPath+"/transitions", patient, ordermapper.TransitionRequest{Status: "APPROVED"})
	require.Equal(t, http.StatusForbidden, w.Code)

	pharmacist := startSession(t, router, "pharmacist")
	w = do(t, router, http.MethodPost, orderPath+"/transitions", pharmacist, ordermapper.TransitionRequest{Status: "PACKED"})
	require.Equal(t, http.StatusConflict, w.Code)
	problem = decode[apierrors.ProblemDetail](t, w)
	require.Equal(t, apierrors.TypeIllegalTransition, problem.Type)
	require.Equal(t, "PENDING_VERIFICATION", problem.Extensions["from"])

	w = do(t, router, http.MethodPost, orderPath+"/dispatch", pharmacist, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	for _, status := range []string{"APPROVED", "PACKED"} {
		w = do(t, router, http.MethodPost, orderPath+"/transitions", pharmacist, ordermapper.TransitionRequest{Status: status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, status, decode[ordermapper.Order](t, w).Status)
	}

	w = do(t, router, http.MethodPost, orderPath+"/transitions", pharmacist, ordermapper.TransitionRequest{Status: "REJECTED"})
	require.Equal(t, http.StatusConflict, w.Code)
	problem = decode[apierrors.ProblemDetail](t, w)
	require.Equal(t, "PACKED", problem.Extensions["from"])
	require.Equal(t, "REJECTED", problem.Extensions["to"])

	w = do(t, router, http.MethodPost, orderPath+"/dispatch", pharmacist, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "DELIVERED", decode[ordermapper.Order](t, w).Status)

	w = do(t, router, http.MethodGet, orderPath, patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "DELIVERED", decode[ordermapper.Order](t, w).Status)
}

func TestOverTheCounterCheckoutAndDashboard(t *testing.T) {
	router := newTestRouter(t)
	admin := startSession(t, router, "admin")

	for _, id := range []string{"1", "1", "3"} {
		w := do(t, router, http.MethodPost, "/v1/cart/items", admin, cartmapper.AddItemRequest{ItemID: id})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(t, router, http.MethodPost, "/v1/checkout", admin, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	checkout := decode[ordermapper.CheckoutResponse](t, w)
	require.Equal(t, "APPROVED", checkout.Order.Status)
	require.Equal(t, "operations", checkout.Next)

	w = do(t, router, http.MethodGet, "/v1/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dashboard := decode[reportingmapper.Dashboard](t, w)
	require.Equal(t, 0, dashboard.PendingCount)
	require.Equal(t, 1, dashboard.OrderCount)
	require.True(t, dashboard.TotalSales.Equal(checkout.Order.TotalAmount))
	require.Equal(t, checkout.Order.TotalLabel, dashboard.TotalSalesLabel)
	require.Equal(t, "$ 15.00", dashboard.TotalSalesLabel)

	patient := startSession(t, router, "patient")
	w = do(t, router, http.MethodGet, "/v1/dashboard", patient, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodGet, "/v1/orders", patient, nil)
	require.Empty(t, decode[[]ordermapper.Order](t, w))
}

func TestEmptyCartCheckoutIsNoop(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router, "patient")
	w := do(t, router, http.MethodPost, "/v1/checkout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decode[ordermapper.CheckoutResponse](t, w).Order)
}

func TestCheckoutIdempotencyKey(t *testing.T) {
	router := newTestRouter(t)
	admin := startSession(t, router, "admin")
	w := do(t, router, http.MethodPost, "/v1/cart/items", admin, cartmapper.AddItemRequest{ItemID: "1"})
	require.Equal(t, http.StatusOK, w.Code)

	checkout := func(token, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
		req.Header.Set(SessionHeader, token)
		req.Header.Set(IdempotencyKeyHeader, key)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	w = checkout(admin, "k-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[ordermapper.CheckoutResponse](t, w)

	w = checkout(admin, "k-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, first.Order.ID, decode[ordermapper.CheckoutResponse](t, w).Order.ID)

	other := startSession(t, router, "admin")
	w = checkout(other, "k-1")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCartQuantityUpdates(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router, "")
	do(t, router, http.MethodPost, "/v1/cart/items", token, cartmapper.AddItemRequest{ItemID: "1"})

	w := do(t, router, http.MethodPut, "/v1/cart/items/9", token, map[string]int{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[cartmapper.Cart](t, w).TotalQuantity)

	w = do(t, router, http.MethodPut, "/v1/cart/items/1", token, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decode[cartmapper.Cart](t, w).Lines)

	w = do(t, router, http.MethodPost, "/v1/cart/items", token, cartmapper.AddItemRequest{ItemID: "missing"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHeaderRequired(t *testing.T) {
	router := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/v1/cart", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, w.Header().Get("Content-Type"))

	w = do(t, router, http.MethodGet, "/v1/cart", "unknown", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "session", decode[apierrors.ProblemDetail](t, w).Extensions["resourceType"])
}

func TestCatalogSearchAndInventoryGuard(t *testing.T) {
	router := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/v1/catalog/items?q=CROCIN", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]catalogmapper.Item](t, w)
	require.Len(t, found, 1)
	require.Equal(t, "Crocin Advance", found[0].Name)

	name := "Cough Syrup"
	patient := startSession(t, router, "patient")
	w = do(t, router, http.MethodPost, "/v1/catalog/items", patient, catalogmapper.MutationItem{Name: &name})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodDelete, "/v1/catalog/items/1", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	pharmacist := startSession(t, router, "pharmacist")
	w = do(t, router, http.MethodDelete, "/v1/catalog/items/1", pharmacist, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodGet, "/v1/catalog/items/1", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	problem := decode[apierrors.ProblemDetail](t, w)
	require.Equal(t, apierrors.TypeNotFound, problem.Type)
	require.Equal(t, "item", problem.Extensions["resourceType"])
}

func TestAssistantFallbackAndBlankQuestions(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router, "")

	w := do(t, router, http.MethodPost, "/v1/assistant/messages", token, assistantmapper.AskRequest{Text: "   "})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodPost, "/v1/assistant/messages", token, assistantmapper.AskRequest{Text: "Is ibuprofen safe?"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, assistantdomain.FallbackReply, decode[assistantmapper.Message](t, w).Text)

	w = do(t, router, http.MethodGet, "/v1/assistant/messages", token, nil)
	transcript := decode[assistantmapper.Transcript](t, w)
	require.Len(t, transcript.Messages, 2)
	require.Equal(t, "user", transcript.Messages[0].Speaker)
	require.Equal(t, "assistant", transcript.Messages[1].Speaker)
}
