package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"inventa/internal/domain/orders"
)

// OrderLineResponse contains order line fields.
type OrderLineResponse struct {
	LineID   string          `json:"lineId"`
	LineNo   int             `json:"lineNo"`
	ItemID   string          `json:"itemId"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderResponse contains order fields with lines.
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerName string              `json:"customerName"`
	OrderDate    time.Time           `json:"orderDate"`
	Status       string              `json:"status"`
	Version      int                 `json:"version"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Lines        []OrderLineResponse `json:"lines"`
}

// FromOrder creates OrderResponse from orders.Order.
func FromOrder(o *orders.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{
			LineID:   l.LineID.String(),
			LineNo:   l.LineNo,
			ItemID:   l.ItemID.String(),
			Quantity: l.Quantity.Int64(),
			Price:    l.Price,
		}
	}
	return OrderResponse{
		ID:           o.ID.String(),
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate,
		Status:       string(o.Status),
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Lines:        lines,
	}
}

// CreateOrderLineRequest is one requested line.
type CreateOrderLineRequest struct {
	ItemID   string          `json:"itemId" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

// CreateOrderRequest for creating orders.
type CreateOrderRequest struct {
	CustomerName string                   `json:"customerName" binding:"required"`
	Lines        []CreateOrderLineRequest `json:"lines" binding:"required,min=1"`
}

// OrderListFilter for GET /orders query parameters.
type OrderListFilter struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
