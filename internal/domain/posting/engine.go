// Package posting makes a set of per-item quantity deltas behave as a single
// all-or-nothing unit against the ledger, which only guarantees atomicity per
// individual item.
package posting

import (
	"context"
	"sort"

	"inventa/internal/core/id"
	"inventa/internal/core/types"
	"inventa/internal/domain/ledger"
	"inventa/pkg/logger"
)

// ItemDelta is one signed quantity change for one item.
// Negative quantity reserves stock, positive releases it.
type ItemDelta struct {
	ItemID   id.ID
	Quantity types.Quantity
}

// Engine coordinates multi-item batches against the ledger.
type Engine struct {
	ledger *ledger.Service
}

// NewEngine creates a new posting engine.
func NewEngine(ledgerService *ledger.Service) *Engine {
	return &Engine{
		ledger: ledgerService,
	}
}

// ApplyAll applies every delta in the batch or none of them.
//
// Deltas are applied in ascending item-ID order so that all callers acquire
// item locks in the same total order; two batches touching the same two
// items can never deadlock. If a reservation fails, the deltas already
// applied in this batch are compensated in reverse order before the failure
// is returned, restoring the ledger to its pre-call state.
//
// Compensation is best effort, not two-phase commit: a failed compensating
// release is logged loudly and skipped, since aborting it would leave the
// ledger in a worse state than continuing.
func (e *Engine) ApplyAll(ctx context.Context, causeOrderID id.ID, deltas []ItemDelta) error {
	ordered := sortedByItem(deltas)

	for i, d := range ordered {
		if err := e.applyOne(ctx, causeOrderID, d); err != nil {
			e.compensate(ctx, causeOrderID, ordered[:i])
			return err
		}
	}

	return nil
}

// ReverseAll applies the negation of every delta in the batch, or none.
// Used to release a cancelled order's reservations and to undo a batch whose
// order could not be persisted. Releases cannot fail under normal operation;
// any error here signals a consistency fault and is propagated as such.
//
// A mid-batch failure compensates the reversals already applied before
// returning, same as ApplyAll. Without that, a two-line order whose second
// item is gone would re-release its first line on every retried cancel.
func (e *Engine) ReverseAll(ctx context.Context, causeOrderID id.ID, deltas []ItemDelta) error {
	ordered := sortedByItem(deltas)

	applied := make([]ItemDelta, 0, len(ordered))
	for _, d := range ordered {
		negated := ItemDelta{ItemID: d.ItemID, Quantity: d.Quantity.Neg()}
		if err := e.applyOne(ctx, causeOrderID, negated); err != nil {
			e.compensate(ctx, causeOrderID, applied)
			return err
		}
		applied = append(applied, negated)
	}

	return nil
}

// applyOne dispatches a single delta to the ledger by sign.
func (e *Engine) applyOne(ctx context.Context, causeOrderID id.ID, d ItemDelta) error {
	if d.Quantity.IsNegative() {
		return e.ledger.Reserve(ctx, d.ItemID, d.Quantity.Abs(), causeOrderID)
	}
	return e.ledger.Release(ctx, d.ItemID, d.Quantity, causeOrderID)
}

// compensate undoes already-applied deltas in reverse order of application.
func (e *Engine) compensate(ctx context.Context, causeOrderID id.ID, applied []ItemDelta) {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		negated := ItemDelta{ItemID: d.ItemID, Quantity: d.Quantity.Neg()}
		if err := e.applyOne(ctx, causeOrderID, negated); err != nil {
			logger.Error(ctx, "compensation failed, ledger may be inconsistent",
				"item_id", d.ItemID,
				"delta", d.Quantity,
				"order_id", causeOrderID,
				"error", err,
			)
		}
	}
}

// sortedByItem returns a copy of deltas in ascending item-ID order.
func sortedByItem(deltas []ItemDelta) []ItemDelta {
	ordered := make([]ItemDelta, len(deltas))
	copy(ordered, deltas)
	sort.Slice(ordered, func(i, j int) bool {
		return id.Compare(ordered[i].ItemID, ordered[j].ItemID) < 0
	})
	return ordered
}
