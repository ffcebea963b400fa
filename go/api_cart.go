package pharmacyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/mediswift-api/internal/domains/cart/adapters/http/mapper"
	carttypes "github.com/Apurer/mediswift-api/internal/domains/cart/application/types"
	cartports "github.com/Apurer/mediswift-api/internal/domains/cart/ports"
)

// CartAPI wires HTTP transport with the session cart.
type CartAPI struct {
	service cartports.Service
}

func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /v1/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	view, err := api.service.View(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromView(view))
}

// Post /v1/cart/items
// Adds one unit of an item, merging with an existing line
func (api *CartAPI) AddItem(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	var payload cartmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.AddItem(c.Request.Context(), carttypes.AddItemInput{SessionID: token, ItemID: payload.ItemID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromView(view))
}

// Put /v1/cart/items/:itemId
// Sets a line quantity; zero or less removes the line, an absent line is left alone
func (api *CartAPI) UpdateLine(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	itemID, ok := bindPathID(c, "itemId")
	if !ok {
		return
	}
	var payload cartmapper.UpdateLineRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.UpdateLine(c.Request.Context(), carttypes.UpdateLineInput{
		SessionID: token,
		ItemID:    itemID,
		Quantity:  *payload.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromView(view))
}
