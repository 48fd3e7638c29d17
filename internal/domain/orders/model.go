// Package orders provides the order lifecycle: creation reserves stock,
// cancellation releases it.
package orders

import (
	"time"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/types"
)

// Status is the order lifecycle state.
//
// CANCELLED is terminal. Transitions are monotone: an order never returns
// to CREATED. A not-yet-persisted order is a draft and never appears in
// the store.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusCancelled Status = "CANCELLED"
)

// Order is a customer order with its lines.
type Order struct {
	ID id.ID `db:"id" json:"id"`

	CustomerName string    `db:"customer_name" json:"customerName"`
	OrderDate    time.Time `db:"order_date" json:"orderDate"`
	Status       Status    `db:"status" json:"status"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Lines are immutable once the order leaves CREATED.
	Lines []OrderLine `db:"-" json:"lines"`
}

// OrderLine references an item by ID and carries the ordered quantity.
// Lines are owned by their order and never persisted independently.
type OrderLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID   id.ID          `db:"item_id" json:"itemId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Price per unit, informational only.
	Price types.Money `db:"price" json:"price"`
}

// LineInput is a requested order line before validation and merging.
type LineInput struct {
	ItemID   id.ID
	Quantity types.Quantity
	Price    types.Money
}

// NewOrder creates a draft order with generated ID.
func NewOrder(customerName string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:           id.New(),
		CustomerName: customerName,
		OrderDate:    now,
		Status:       StatusCreated,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsCancelled reports whether the order reached its terminal state.
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// buildLines validates inputs and converts them into order lines,
// merging duplicate item references by summing their quantities.
//
// Merging before reservation avoids charging the same item twice within
// one order and keeps reversal symmetric. The first occurrence's price
// and position are kept.
func buildLines(inputs []LineInput) ([]OrderLine, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewInvalidInput("order requires at least one line").
			WithDetail("field", "lines")
	}

	lines := make([]OrderLine, 0, len(inputs))
	index := make(map[id.ID]int, len(inputs))

	for i, in := range inputs {
		if id.IsNil(in.ItemID) {
			return nil, apperror.NewInvalidInput("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !in.Quantity.IsPositive() {
			return nil, apperror.NewInvalidInput("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if in.Price.IsNegative() {
			return nil, apperror.NewInvalidInput("price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}

		if at, ok := index[in.ItemID]; ok {
			lines[at].Quantity += in.Quantity
			continue
		}

		index[in.ItemID] = len(lines)
		lines = append(lines, OrderLine{
			LineID:   id.New(),
			LineNo:   len(lines) + 1,
			ItemID:   in.ItemID,
			Quantity: in.Quantity,
			Price:    in.Price,
		})
	}

	return lines, nil
}
