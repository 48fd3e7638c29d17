package handlers

import (
	"github.com/gin-gonic/gin"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/types"
	"inventa/internal/domain/orders"
	"inventa/internal/infrastructure/http/v1/dto"
)

// OrdersHandler handles HTTP requests for orders.
type OrdersHandler struct {
	*BaseHandler
	service *orders.Service
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(base *BaseHandler, service *orders.Service) *OrdersHandler {
	return &OrdersHandler{BaseHandler: base, service: service}
}

// List handles GET /orders
func (h *OrdersHandler) List(c *gin.Context) {
	var q dto.OrderListFilter
	if !h.BindQuery(c, &q) {
		return
	}

	filter := orders.ListFilter{
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Status != "" {
		status := orders.Status(q.Status)
		if status != orders.StatusCreated && status != orders.StatusCancelled {
			h.Error(c, apperror.NewValidation("unknown status").WithDetail("status", q.Status))
			return
		}
		filter.Status = &status
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.OrderResponse, len(result))
	for i, o := range result {
		responses[i] = dto.FromOrder(o)
	}
	h.OK(c, dto.ListResponse[dto.OrderResponse]{Items: responses})
}

// Get handles GET /orders/:orderId
func (h *OrdersHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c, "orderId")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOrder(order))
}

// Create handles POST /orders
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inputs := make([]orders.LineInput, len(req.Lines))
	for i, line := range req.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId format").
				WithDetail("lineNo", i+1))
			return
		}
		inputs[i] = orders.LineInput{
			ItemID:   itemID,
			Quantity: types.Quantity(line.Quantity),
			Price:    line.Price,
		}
	}

	order, err := h.service.Create(c.Request.Context(), req.CustomerName, inputs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, order.ID)
}

// Cancel handles PUT /orders/:orderId/cancel
func (h *OrdersHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParseID(c, "orderId")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "order cancelled")
}
