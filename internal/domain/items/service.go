package items

import (
	"context"
	"fmt"
	"strings"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/tx"
	"inventa/internal/core/types"
	"inventa/internal/domain/audit"
	"inventa/internal/domain/ledger"
	"inventa/pkg/logger"
)

// Service manages the item catalog. All quantity changes are delegated to
// the ledger so every adjustment leaves a delta behind.
type Service struct {
	repo      Repository
	ledger    *ledger.Service
	txManager tx.Manager
	auditor   audit.Recorder
}

func NewService(repo Repository, ledgerService *ledger.Service, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		ledger:    ledgerService,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Add creates an item. Initial stock, if any, is recorded as a manual
// adjustment delta so the ledger accounts for it from the start.
func (s *Service) Add(ctx context.Context, name string, initialQty types.Quantity) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.NewInvalidInput("item name is required").
			WithDetail("field", "name")
	}
	if initialQty.IsNegative() {
		return nil, apperror.NewInvalidInput("initial quantity cannot be negative").
			WithDetail("quantity", initialQty.Int64())
	}

	item := NewItem(name)
	err := tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, item); err != nil {
			return err
		}
		if !initialQty.IsZero() {
			return s.ledger.SetOnHand(ctx, item.ID, initialQty)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	item.QuantityOnHand = initialQty

	if err := s.auditor.Record(ctx, "item", item.ID, audit.ActionCreate, item); err != nil {
		logger.Warn(ctx, "item audit record failed", "item_id", item.ID, "error", err)
	}

	logger.Info(ctx, "item created", "item_id", item.ID, "name", item.Name)
	return item, nil
}

// SetQuantity overwrites the on-hand quantity of an item. The difference
// to the current level is recorded as a manual adjustment delta.
func (s *Service) SetQuantity(ctx context.Context, itemID id.ID, qty types.Quantity) (*Item, error) {
	if qty.IsNegative() {
		return nil, apperror.NewInvalidInput("quantity cannot be negative").
			WithDetail("quantity", qty.Int64())
	}

	if err := s.ledger.SetOnHand(ctx, itemID, qty); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.auditor.Record(ctx, "item", item.ID, audit.ActionAdjust, item); err != nil {
		logger.Warn(ctx, "item audit record failed", "item_id", item.ID, "error", err)
	}

	logger.Info(ctx, "item quantity set", "item_id", itemID, "quantity", qty.Int64())
	return item, nil
}

// Delete removes an item from the catalog. Ledger history for the item is
// retained. Orders holding reservations against a deleted item will fail
// loudly on cancellation rather than lose stock silently.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	err := tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		return s.repo.Delete(ctx, itemID)
	})
	if err != nil {
		return err
	}

	if err := s.auditor.Record(ctx, "item", itemID, audit.ActionDelete, nil); err != nil {
		logger.Warn(ctx, "item audit record failed", "item_id", itemID, "error", err)
	}

	logger.Info(ctx, "item deleted", "item_id", itemID)
	return nil
}

func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.List(ctx)
}
