package items

import (
	"time"

	"inventa/internal/core/id"
	"inventa/internal/core/types"
)

// Item is a stocked product. QuantityOnHand is the authoritative current
// stock level; every change to it has a matching entry in stock_deltas.
type Item struct {
	ID             id.ID          `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`
	Version        int            `db:"version" json:"version"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewItem creates an item with zero stock. Initial quantity is applied
// through the ledger afterwards so that on-hand always equals the sum of
// recorded deltas.
func NewItem(name string) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:             id.New(),
		Name:           name,
		QuantityOnHand: 0,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
