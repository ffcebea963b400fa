package pharmacyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API area.
type ApiHandleFunctions struct {
	SessionAPI   SessionAPI
	CatalogAPI   CatalogAPI
	CartAPI      CartAPI
	OrderAPI     OrderAPI
	DashboardAPI DashboardAPI
	AssistantAPI AssistantAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the MediSwift routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"StartSession", http.MethodPost, "/v1/sessions", handleFunctions.SessionAPI.StartSession},
		{"GetSession", http.MethodGet, "/v1/sessions/current", handleFunctions.SessionAPI.GetSession},
		{"SignIn", http.MethodPost, "/v1/sessions/current/sign-in", handleFunctions.SessionAPI.SignIn},
		{"SignOut", http.MethodPost, "/v1/sessions/current/sign-out", handleFunctions.SessionAPI.SignOut},

		{"ListItems", http.MethodGet, "/v1/catalog/items", handleFunctions.CatalogAPI.ListItems},
		{"GetItem", http.MethodGet, "/v1/catalog/items/:itemId", handleFunctions.CatalogAPI.GetItem},
		{"CreateItem", http.MethodPost, "/v1/catalog/items", handleFunctions.CatalogAPI.CreateItem},
		{"UpdateItem", http.MethodPut, "/v1/catalog/items/:itemId", handleFunctions.CatalogAPI.UpdateItem},
		{"DeleteItem", http.MethodDelete, "/v1/catalog/items/:itemId", handleFunctions.CatalogAPI.DeleteItem},

		{"GetCart", http.MethodGet, "/v1/cart", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/v1/cart/items", handleFunctions.CartAPI.AddItem},
		{"UpdateCartLine", http.MethodPut, "/v1/cart/items/:itemId", handleFunctions.CartAPI.UpdateLine},
		{"Checkout", http.MethodPost, "/v1/checkout", handleFunctions.OrderAPI.Checkout},

		{"ListOrders", http.MethodGet, "/v1/orders", handleFunctions.OrderAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrderAPI.GetOrder},
		{"TransitionOrder", http.MethodPost, "/v1/orders/:orderId/transitions", handleFunctions.OrderAPI.Transition},
		{"DispatchOrder", http.MethodPost, "/v1/orders/:orderId/dispatch", handleFunctions.OrderAPI.Dispatch},

		{"GetDashboard", http.MethodGet, "/v1/dashboard", handleFunctions.DashboardAPI.GetDashboard},

		{"AskAssistant", http.MethodPost, "/v1/assistant/messages", handleFunctions.AssistantAPI.Ask},
		{"GetTranscript", http.MethodGet, "/v1/assistant/messages", handleFunctions.AssistantAPI.Transcript},
	}
}
