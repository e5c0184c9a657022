package storefrontserver

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

// ApiHandleFunctions groups the handlers of every API section.
type ApiHandleFunctions struct {
	SessionAPI  SessionAPI
	CartAPI     CartAPI
	CheckoutAPI CheckoutAPI
	HealthAPI   HealthAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing engine.
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
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"GetHealth", http.MethodGet, "/v1/health", handleFunctions.HealthAPI.GetHealth},
		{"GetSession", http.MethodGet, "/v1/session", handleFunctions.SessionAPI.GetSession},
		{"Login", http.MethodPost, "/v1/session/login", handleFunctions.SessionAPI.Login},
		{"Register", http.MethodPost, "/v1/session/register", handleFunctions.SessionAPI.Register},
		{"VerifyOTP", http.MethodPost, "/v1/session/verify-otp", handleFunctions.SessionAPI.VerifyOTP},
		{"Logout", http.MethodPost, "/v1/session/logout", handleFunctions.SessionAPI.Logout},
		{"RestoreSession", http.MethodPost, "/v1/session/restore", handleFunctions.SessionAPI.RestoreSession},
		{"SaveAddress", http.MethodPost, "/v1/session/addresses", handleFunctions.SessionAPI.SaveAddress},
		{"GetCart", http.MethodGet, "/v1/cart", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/v1/cart/items", handleFunctions.CartAPI.AddItem},
		{"SetCartItemQuantity", http.MethodPut, "/v1/cart/items/:itemId", handleFunctions.CartAPI.SetQuantity},
		{"RemoveCartItem", http.MethodDelete, "/v1/cart/items/:itemId", handleFunctions.CartAPI.RemoveItem},
		{"ClearCart", http.MethodDelete, "/v1/cart", handleFunctions.CartAPI.Clear},
		{"ApplyPromotion", http.MethodPost, "/v1/cart/promotion", handleFunctions.CartAPI.ApplyPromotion},
		{"BeginCheckout", http.MethodPost, "/v1/checkout", handleFunctions.CheckoutAPI.BeginCheckout},
		{"ListReceipts", http.MethodGet, "/v1/checkout/receipts", handleFunctions.CheckoutAPI.ListReceipts},
		{"GetReceipt", http.MethodGet, "/v1/checkout/receipts/:handoffId", handleFunctions.CheckoutAPI.GetReceipt},
	}
}
