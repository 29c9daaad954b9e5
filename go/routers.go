package shopserver

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

// BasePath is the prefix for every shop route.
const BasePath = "/api/v1"

// ApiHandleFunctions groups the handlers of each API section.
type ApiHandleFunctions struct {
	MemberAPI MemberAPI
	ItemAPI   ItemAPI
	OrderAPI  OrderAPI
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine. Middleware
// must be registered on the engine before calling it.
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
	if handleFunctions.Metrics != nil {
		router.GET("/metrics", gin.WrapH(handleFunctions.Metrics))
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler yet.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"JoinMember", http.MethodPost, BasePath + "/members", h.MemberAPI.JoinMember},
		{"ListMembers", http.MethodGet, BasePath + "/members", h.MemberAPI.ListMembers},
		{"GetMember", http.MethodGet, BasePath + "/members/:memberId", h.MemberAPI.GetMember},
		{"RegisterItem", http.MethodPost, BasePath + "/items", h.ItemAPI.RegisterItem},
		{"ListItems", http.MethodGet, BasePath + "/items", h.ItemAPI.ListItems},
		{"GetItem", http.MethodGet, BasePath + "/items/:itemId", h.ItemAPI.GetItem},
		{"UpdateItem", http.MethodPut, BasePath + "/items/:itemId", h.ItemAPI.UpdateItem},
		{"RestockItem", http.MethodPost, BasePath + "/items/:itemId/restock", h.ItemAPI.RestockItem},
		{"PlaceOrder", http.MethodPost, BasePath + "/orders", h.OrderAPI.PlaceOrder},
		{"SearchOrders", http.MethodGet, BasePath + "/orders", h.OrderAPI.SearchOrders},
		{"GetOrder", http.MethodGet, BasePath + "/orders/:orderId", h.OrderAPI.GetOrder},
		{"CancelOrder", http.MethodPost, BasePath + "/orders/:orderId/cancel", h.OrderAPI.CancelOrder},
		{"ShipOrder", http.MethodPost, BasePath + "/orders/:orderId/ship", h.OrderAPI.ShipOrder},
		{"CompleteDelivery", http.MethodPost, BasePath + "/orders/:orderId/deliver", h.OrderAPI.CompleteDelivery},
	}
}
