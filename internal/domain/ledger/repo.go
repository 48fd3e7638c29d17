package ledger

import (
	"context"

	"inventa/internal/core/id"
	"inventa/internal/core/types"
)

// Repository defines storage operations for the ledger.
//
// Implementations do not need to serialize concurrent callers per item;
// the Service holds the per-item lock around every mutation. They must
// report a missing item as an apperror NOT_FOUND.
type Repository interface {
	// GetOnHand returns the current on-hand quantity for an item.
	GetOnHand(ctx context.Context, itemID id.ID) (types.Quantity, error)

	// GetOnHandForUpdate returns the quantity with a row lock where the
	// store supports one. Called only inside a mutation transaction.
	GetOnHandForUpdate(ctx context.Context, itemID id.ID) (types.Quantity, error)

	// SetOnHand writes the new on-hand quantity for an item.
	SetOnHand(ctx context.Context, itemID id.ID, qty types.Quantity) error

	// AppendDelta records an audit delta.
	AppendDelta(ctx context.Context, delta StockDelta) error

	// DeltasByItem returns all deltas for an item in application order.
	DeltasByItem(ctx context.Context, itemID id.ID) ([]StockDelta, error)

	// DeltasByOrder returns all deltas caused by an order in application order.
	DeltasByOrder(ctx context.Context, orderID id.ID) ([]StockDelta, error)
}
