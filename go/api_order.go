package shopserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	shophttpmapper "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/http/mapper"
	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	shopports "github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

// IdempotencyKeyHeader lets clients retry POST /orders safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the shop service and checkout workflows.
type OrderAPI struct {
	service   shopports.Service
	workflows shopports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. A nil orchestrator runs checkout on the service directly.
func NewOrderAPI(service shopports.Service, workflows shopports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/v1/orders
// Place an order
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload shophttpmapper.OrderForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	id, err := api.checkout(c.Request.Context(), shophttpmapper.ToCheckoutInput(payload, key))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shophttpmapper.Created{ID: id})
}

func (api *OrderAPI) checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error) {
	if api.workflows != nil {
		return api.workflows.Checkout(ctx, input)
	}
	return api.service.Checkout(ctx, input)
}

// Get /api/v1/orders
// Search orders by member name and status
func (api *OrderAPI) SearchOrders(c *gin.Context) {
	search := shopports.OrderSearch{
		MemberName: strings.TrimSpace(c.Query("memberName")),
		Status:     domain.Status(strings.ToLower(strings.TrimSpace(c.Query("status")))),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			responder.BadRequest(c, "limit must be an integer")
			return
		}
		search.Limit = limit
	}
	orders, err := api.service.SearchOrders(c.Request.Context(), search)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromOrderList(orders))
}

// Get /api/v1/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromOrder(order))
}

// Post /api/v1/orders/:orderId/cancel
// Cancel an order and restore stock
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	api.transition(c, api.service.CancelOrder)
}

// Post /api/v1/orders/:orderId/ship
// Mark the order's shipment as shipped
func (api *OrderAPI) ShipOrder(c *gin.Context) {
	api.transition(c, api.service.ShipOrder)
}

// Post /api/v1/orders/:orderId/deliver
// Mark the order's shipment as delivered
func (api *OrderAPI) CompleteDelivery(c *gin.Context) {
	api.transition(c, api.service.CompleteDelivery)
}

func (api *OrderAPI) transition(c *gin.Context, apply func(context.Context, int64) error) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := apply(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	order, err := api.service.GetOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromOrder(order))
}
