package items

import (
	"context"

	"inventa/internal/core/id"
)

// Repository persists items. Quantity updates go through the ledger
// repository, not here; this interface only covers the catalog side.
type Repository interface {
	// Create inserts a new item.
	Create(ctx context.Context, item *Item) error

	// GetByID returns the item or a NOT_FOUND apperror.
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// List returns all items ordered by name.
	List(ctx context.Context) ([]*Item, error)

	// Delete removes the item. Returns NOT_FOUND if it does not exist.
	// Stock deltas referencing the item are kept for the audit trail.
	Delete(ctx context.Context, itemID id.ID) error
}
