package ledger

import (
	"context"
	"fmt"
	"math"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/tx"
	"inventa/internal/core/types"
	"inventa/pkg/logger"
)

// Service applies signed quantity deltas atomically per item.
type Service struct {
	repo      Repository
	txManager tx.Manager // optional; nil for non-transactional stores
	locks     *itemLocks
}

// NewService creates a new ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		locks:     newItemLocks(),
	}
}

// Reserve decreases the on-hand quantity of an item by qty, but only if the
// result stays non-negative. On shortage the item is left untouched and an
// INSUFFICIENT_STOCK error naming the item is returned.
func (s *Service) Reserve(ctx context.Context, itemID id.ID, qty types.Quantity, causeOrderID id.ID) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("reserve quantity must be positive").
			WithDetail("item_id", itemID.String())
	}

	unlock := s.locks.acquire(itemID)
	defer unlock()

	return tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		onHand, err := s.repo.GetOnHandForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if onHand.IsNegative() {
			return apperror.NewLedgerInvariant(itemID.String(),
				fmt.Sprintf("observed negative on-hand quantity %d", onHand))
		}
		if onHand < qty {
			return apperror.NewInsufficientStock(itemID.String(), qty.Int64(), onHand.Int64())
		}

		if err := s.apply(ctx, itemID, onHand-qty, qty.Neg(), causeOrderID); err != nil {
			return err
		}

		logger.Debug(ctx, "stock reserved",
			"item_id", itemID,
			"quantity", qty,
			"order_id", causeOrderID,
		)
		return nil
	})
}

// Release increases the on-hand quantity of an item by qty unconditionally.
// Numeric overflow is a fatal invariant violation, not a recoverable error.
func (s *Service) Release(ctx context.Context, itemID id.ID, qty types.Quantity, causeOrderID id.ID) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("release quantity must be positive").
			WithDetail("item_id", itemID.String())
	}

	unlock := s.locks.acquire(itemID)
	defer unlock()

	return tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		onHand, err := s.repo.GetOnHandForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if onHand.IsNegative() {
			return apperror.NewLedgerInvariant(itemID.String(),
				fmt.Sprintf("observed negative on-hand quantity %d", onHand))
		}
		if qty.Int64() > math.MaxInt64-onHand.Int64() {
			return apperror.NewLedgerInvariant(itemID.String(),
				fmt.Sprintf("release of %d would overflow on-hand quantity %d", qty, onHand))
		}

		if err := s.apply(ctx, itemID, onHand+qty, qty, causeOrderID); err != nil {
			return err
		}

		logger.Debug(ctx, "stock released",
			"item_id", itemID,
			"quantity", qty,
			"order_id", causeOrderID,
		)
		return nil
	})
}

// SetOnHand adjusts an item's quantity to target (inventory intake).
// The change is recorded as a delta with no cause order.
func (s *Service) SetOnHand(ctx context.Context, itemID id.ID, target types.Quantity) error {
	if target.IsNegative() {
		return apperror.NewValidation("on-hand quantity cannot be negative").
			WithDetail("item_id", itemID.String())
	}

	unlock := s.locks.acquire(itemID)
	defer unlock()

	return tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		onHand, err := s.repo.GetOnHandForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if onHand == target {
			return nil
		}

		if err := s.apply(ctx, itemID, target, target-onHand, id.Nil()); err != nil {
			return err
		}

		logger.Info(ctx, "stock adjusted",
			"item_id", itemID,
			"from", onHand,
			"to", target,
		)
		return nil
	})
}

// apply writes the new quantity and the matching audit delta.
// Caller holds the item lock and the transaction.
func (s *Service) apply(ctx context.Context, itemID id.ID, newQty, delta types.Quantity, causeOrderID id.ID) error {
	if err := s.repo.SetOnHand(ctx, itemID, newQty); err != nil {
		return fmt.Errorf("set on-hand: %w", err)
	}
	if err := s.repo.AppendDelta(ctx, NewStockDelta(itemID, delta, causeOrderID)); err != nil {
		return fmt.Errorf("append delta: %w", err)
	}
	return nil
}

// OnHand returns the current on-hand quantity for an item.
func (s *Service) OnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	return s.repo.GetOnHand(ctx, itemID)
}

// Deltas returns the audit trail for an item in application order.
func (s *Service) Deltas(ctx context.Context, itemID id.ID) ([]StockDelta, error) {
	return s.repo.DeltasByItem(ctx, itemID)
}

// DeltasByOrder returns every delta a single order caused.
func (s *Service) DeltasByOrder(ctx context.Context, orderID id.ID) ([]StockDelta, error) {
	return s.repo.DeltasByOrder(ctx, orderID)
}
