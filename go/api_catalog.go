package pharmacyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	catalogmapper "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

// CatalogAPI wires HTTP transport with the catalog service.
type CatalogAPI struct {
	service  catalogports.Service
	sessions sessionports.Service
}

func NewCatalogAPI(service catalogports.Service, sessions sessionports.Service) CatalogAPI {
	return CatalogAPI{service: service, sessions: sessions}
}

// ListItemsParams are the catalog filters.
type ListItemsParams struct {
	Q        *string `form:"q,omitempty" json:"q,omitempty"`
	Category *string `form:"category,omitempty" json:"category,omitempty"`
}

// Get /v1/catalog/items
// Searches the catalog by name or brand and category
func (api *CatalogAPI) ListItems(c *gin.Context) {
	var params ListItemsParams
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &params.Q); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", query, &params.Category); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := catalogtypes.ListItemsInput{}
	if params.Q != nil {
		input.Query = *params.Q
	}
	if params.Category != nil {
		input.Category = *params.Category
	}
	items, err := api.service.ListItems(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjectionList(items))
}

// Get /v1/catalog/items/:itemId
func (api *CatalogAPI) GetItem(c *gin.Context) {
	id, ok := bindPathID(c, "itemId")
	if !ok {
		return
	}
	item, err := api.service.GetItem(c.Request.Context(), catalogtypes.ItemIdentifier{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(item))
}

// Post /v1/catalog/items
// Adds an item, staff only
func (api *CatalogAPI) CreateItem(c *gin.Context) {
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	var payload catalogmapper.MutationItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateItem(c.Request.Context(), catalogtypes.CreateItemInput{
		Actor:             actor,
		ID:                payload.ID,
		ItemMutationInput: catalogmapper.ToMutationInput(payload),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromProjection(created))
}

// Put /v1/catalog/items/:itemId
// Edits an item, staff only
func (api *CatalogAPI) UpdateItem(c *gin.Context) {
	id, ok := bindPathID(c, "itemId")
	if !ok {
		return
	}
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	var payload catalogmapper.MutationItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.UpdateItem(c.Request.Context(), catalogtypes.UpdateItemInput{
		Actor:             actor,
		ID:                id,
		ItemMutationInput: catalogmapper.ToMutationInput(payload),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(updated))
}

// Delete /v1/catalog/items/:itemId
// Removes an item, staff only
func (api *CatalogAPI) DeleteItem(c *gin.Context) {
	id, ok := bindPathID(c, "itemId")
	if !ok {
		return
	}
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	if err := api.service.DeleteItem(c.Request.Context(), catalogtypes.DeleteItemInput{Actor: actor, ID: id}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindPathID(c *gin.Context, name string) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name),
		&id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		respondBadRequest(c, err)
		return "", false
	}
	return id, true
}
