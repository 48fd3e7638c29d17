package suppliers

import (
	"context"

	"inventa/internal/core/id"
)

type Repository interface {
	Create(ctx context.Context, supplier *Supplier) error

	// GetByID returns the supplier or a NOT_FOUND apperror.
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)

	// List returns all suppliers ordered by name.
	List(ctx context.Context) ([]*Supplier, error)

	// Delete removes the supplier. Returns NOT_FOUND if it does not exist.
	Delete(ctx context.Context, supplierID id.ID) error
}
