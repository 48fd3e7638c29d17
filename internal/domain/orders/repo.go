package orders

import (
	"context"

	"inventa/internal/core/id"
)

// ListFilter narrows List results.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Repository defines the interface for order persistence.
type Repository interface {
	// Create inserts the order together with its lines.
	Create(ctx context.Context, order *Order) error

	// GetByID retrieves an order with lines.
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// UpdateStatus moves the order to a new status (with optimistic locking).
	UpdateStatus(ctx context.Context, orderID id.ID, status Status, expectedVersion int) error

	// List retrieves orders with lines, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
}
