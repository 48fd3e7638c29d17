package handlers

import (
	"github.com/gin-gonic/gin"

	"inventa/internal/core/types"
	"inventa/internal/domain/items"
	"inventa/internal/infrastructure/http/v1/dto"
)

// ItemsHandler handles HTTP requests for the item catalog.
type ItemsHandler struct {
	*BaseHandler
	service *items.Service
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(base *BaseHandler, service *items.Service) *ItemsHandler {
	return &ItemsHandler{BaseHandler: base, service: service}
}

// List handles GET /items
func (h *ItemsHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.ItemResponse, len(result))
	for i, item := range result {
		responses[i] = dto.FromItem(item)
	}
	h.OK(c, dto.ListResponse[dto.ItemResponse]{Items: responses})
}

// Get handles GET /items/:itemId
func (h *ItemsHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(item))
}

// Create handles POST /items
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Add(c.Request.Context(), req.Name, types.Quantity(req.Quantity))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID)
}

// SetQuantity handles PUT /items/:itemId/quantity
func (h *ItemsHandler) SetQuantity(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.SetItemQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.SetQuantity(c.Request.Context(), itemID, types.Quantity(req.Quantity))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(item))
}

// Delete handles DELETE /items/:itemId
func (h *ItemsHandler) Delete(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
