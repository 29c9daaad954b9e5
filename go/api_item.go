package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	shophttpmapper "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/http/mapper"
	shopports "github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

// ItemAPI exposes the item catalog.
type ItemAPI struct {
	service shopports.Service
}

// NewItemAPI wires dependencies.
func NewItemAPI(service shopports.Service) ItemAPI {
	return ItemAPI{service: service}
}

// Post /api/v1/items
// Register a new item
func (api *ItemAPI) RegisterItem(c *gin.Context) {
	var payload shophttpmapper.ItemForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	id, err := api.service.RegisterItem(c.Request.Context(), shophttpmapper.ToRegisterItemInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shophttpmapper.Created{ID: id})
}

// Get /api/v1/items
// List items
func (api *ItemAPI) ListItems(c *gin.Context) {
	items, err := api.service.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromItemList(items))
}

// Get /api/v1/items/:itemId
// Find item by ID
func (api *ItemAPI) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	item, err := api.service.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromItem(item))
}

// Put /api/v1/items/:itemId
// Update item name and price
func (api *ItemAPI) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload shophttpmapper.ItemForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	if err := api.service.UpdateItem(ctx, shophttpmapper.ToUpdateItemInput(id, payload)); err != nil {
		respondError(c, err)
		return
	}
	item, err := api.service.GetItem(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromItem(item))
}

// Post /api/v1/items/:itemId/restock
// Add stock to an item
func (api *ItemAPI) RestockItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload shophttpmapper.RestockForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	stock, err := api.service.RestockItem(c.Request.Context(), id, payload.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "stockQuantity": stock})
}
