package ledger

import (
	"context"
	"sync"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/types"
)

// MemoryRepository is an in-memory Repository for tests and local development.
type MemoryRepository struct {
	mu     sync.Mutex
	onHand map[id.ID]types.Quantity
	deltas []StockDelta
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		onHand: make(map[id.ID]types.Quantity),
	}
}

// PutItem registers an item with an initial quantity, without recording a delta.
func (r *MemoryRepository) PutItem(itemID id.ID, qty types.Quantity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onHand[itemID] = qty
}

// RemoveItem deletes an item, leaving any deltas in place.
func (r *MemoryRepository) RemoveItem(itemID id.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.onHand, itemID)
}

func (r *MemoryRepository) GetOnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	qty, ok := r.onHand[itemID]
	if !ok {
		return 0, apperror.NewNotFound("item", itemID.String())
	}
	return qty, nil
}

func (r *MemoryRepository) GetOnHandForUpdate(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	return r.GetOnHand(ctx, itemID)
}

func (r *MemoryRepository) SetOnHand(ctx context.Context, itemID id.ID, qty types.Quantity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.onHand[itemID]; !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	r.onHand[itemID] = qty
	return nil
}

func (r *MemoryRepository) AppendDelta(ctx context.Context, delta StockDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltas = append(r.deltas, delta)
	return nil
}

func (r *MemoryRepository) DeltasByItem(ctx context.Context, itemID id.ID) ([]StockDelta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []StockDelta
	for _, d := range r.deltas {
		if d.ItemID == itemID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryRepository) DeltasByOrder(ctx context.Context, orderID id.ID) ([]StockDelta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []StockDelta
	for _, d := range r.deltas {
		if d.CauseOrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}

// Ensure interface compliance.
var _ Repository = (*MemoryRepository)(nil)
