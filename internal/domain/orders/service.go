package orders

import (
	"context"
	"fmt"
	"strings"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/tx"
	"inventa/internal/domain/audit"
	"inventa/internal/domain/posting"
	"inventa/pkg/logger"
)

// Service drives the order lifecycle. Stock is only ever touched through
// the posting engine; this service never writes item quantities itself.
type Service struct {
	repo      Repository
	engine    *posting.Engine
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new order service.
func NewService(repo Repository, engine *posting.Engine, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		engine:    engine,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Create validates the request, reserves stock for every line as one unit
// and persists the order as CREATED.
//
// If any reservation fails, nothing is persisted and stock is unchanged
// (the engine compensates). If persisting fails after reservation, the
// reservations are reversed before the error is returned, so stock is
// never decremented without a recorded order.
func (s *Service) Create(ctx context.Context, customerName string, inputs []LineInput) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, apperror.NewInvalidInput("customer name is required").
			WithDetail("field", "customerName")
	}

	lines, err := buildLines(inputs)
	if err != nil {
		return nil, err
	}

	order := NewOrder(customerName)
	order.Lines = lines

	deltas := reservationDeltas(lines)
	if err := s.engine.ApplyAll(ctx, order.ID, deltas); err != nil {
		return nil, err
	}

	err = tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		return s.repo.Create(ctx, order)
	})
	if err != nil {
		if revErr := s.engine.ReverseAll(ctx, order.ID, deltas); revErr != nil {
			logger.Error(ctx, "failed to reverse reservations of unpersisted order",
				"order_id", order.ID,
				"error", revErr,
			)
		}
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.auditor.Record(ctx, "order", order.ID, audit.ActionCreate, order); err != nil {
		logger.Warn(ctx, "order audit record failed", "order_id", order.ID, "error", err)
	}

	logger.Info(ctx, "order created",
		"order_id", order.ID,
		"customer", order.CustomerName,
		"lines", len(order.Lines),
	)
	return order, nil
}

// Cancel transitions an order to CANCELLED and releases its stock.
//
// Cancellation is not idempotent: cancelling an already-cancelled order
// returns INVALID_TRANSITION and produces no ledger delta. Callers that
// need idempotence must check the status first.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("order", orderID.String())
		}
		return err
	}

	if order.IsCancelled() {
		return apperror.NewInvalidTransition(orderID.String(), string(order.Status))
	}

	// Claim the transition before touching stock. The optimistic update is
	// the gate: of two concurrent cancels exactly one bumps the version, so
	// the reservation is released exactly once. The loser sees a version
	// conflict here and has not produced any ledger delta.
	err = tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		return s.repo.UpdateStatus(ctx, orderID, StatusCancelled, order.Version)
	})
	if err != nil {
		if apperror.IsConcurrentModification(err) {
			return apperror.NewInvalidTransition(orderID.String(), string(StatusCancelled)).
				WithCause(err)
		}
		return fmt.Errorf("persist cancellation: %w", err)
	}

	// An item deleted after the order was placed surfaces here as NOT_FOUND.
	// That is a fatal consistency fault, not a skippable condition: the
	// reservation exists but can no longer be returned. The engine has
	// already compensated any lines it did release, so the claim is
	// reverted and the order stays CREATED for the operator to resolve.
	if err := s.engine.ReverseAll(ctx, order.ID, reservationDeltas(order.Lines)); err != nil {
		revertErr := tx.Run(ctx, s.txManager, func(ctx context.Context) error {
			return s.repo.UpdateStatus(ctx, orderID, StatusCreated, order.Version+1)
		})
		if revertErr != nil {
			logger.Error(ctx, "failed to revert cancellation of order whose stock was not released",
				"order_id", orderID,
				"error", revertErr,
			)
		}
		if apperror.IsNotFound(err) {
			return apperror.NewLedgerInvariant("",
				"order line references an item that no longer exists").
				WithDetail("order_id", orderID.String()).
				WithCause(err)
		}
		return err
	}

	if err := s.auditor.Record(ctx, "order", order.ID, audit.ActionCancel, order); err != nil {
		logger.Warn(ctx, "order audit record failed", "order_id", order.ID, "error", err)
	}

	logger.Info(ctx, "order cancelled", "order_id", orderID)
	return nil
}

// GetByID retrieves an order with lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, err
	}
	return order, nil
}

// List retrieves orders, pass-through to the repository.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

// reservationDeltas converts order lines into the negative deltas that
// reserve their quantities. Reversal releases the same set.
func reservationDeltas(lines []OrderLine) []posting.ItemDelta {
	deltas := make([]posting.ItemDelta, len(lines))
	for i, line := range lines {
		deltas[i] = posting.ItemDelta{
			ItemID:   line.ItemID,
			Quantity: line.Quantity.Neg(),
		}
	}
	return deltas
}
