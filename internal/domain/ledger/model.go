// Package ledger owns the on-hand quantity of every item.
//
// All mutation of an item's quantity goes through the Service here. Each
// item behaves as an independent serialization domain: concurrent reserves
// and releases on one item are applied in some total order, and no
// interleaving may observe or produce a negative quantity.
package ledger

import (
	"time"

	"inventa/internal/core/id"
	"inventa/internal/core/types"
)

// StockDelta is one audit record of a quantity change.
// Deltas are immutable; they are appended on every successful Reserve,
// Release or manual adjustment and are never updated or deleted.
type StockDelta struct {
	// ID is unique identifier for this delta (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// ItemID is the item whose quantity changed
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Delta is the signed quantity change (negative = reservation)
	Delta types.Quantity `db:"delta" json:"delta"`

	// CauseOrderID is the order that caused the change.
	// Nil UUID for manual stock adjustments (inventory intake).
	CauseOrderID id.ID `db:"cause_order_id" json:"causeOrderId"`

	// CreatedAt is when the delta was applied
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockDelta creates a delta record with generated ID.
func NewStockDelta(itemID id.ID, delta types.Quantity, causeOrderID id.ID) StockDelta {
	return StockDelta{
		ID:           id.New(),
		ItemID:       itemID,
		Delta:        delta,
		CauseOrderID: causeOrderID,
		CreatedAt:    time.Now().UTC(),
	}
}
