// Package reports provides read-only projections over items and orders.
// Reports are computed per request; there is no materialization.
package reports

import (
	"context"
	"time"

	"inventa/internal/core/id"
	"inventa/internal/core/tx"
	"inventa/internal/core/types"
)

// StockLevel is one row of the stock level report.
type StockLevel struct {
	ItemID         id.ID          `db:"item_id" json:"itemId"`
	Name           string         `db:"name" json:"name"`
	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`
	Reserved       types.Quantity `db:"reserved" json:"reserved"`
}

// OrderStatusCount is one row of the order status report.
type OrderStatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

// StockLevelReport lists every item with its current stock and the
// quantity currently held by open orders.
type StockLevelReport struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	Items       []StockLevel `json:"items"`
}

// OrderStatusReport counts orders per lifecycle status.
type OrderStatusReport struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Counts      []OrderStatusCount `json:"counts"`
	Total       int64              `json:"total"`
}

// Repository runs the report queries. Implementations should use a
// single statement per report so the rows are mutually consistent.
type Repository interface {
	StockLevels(ctx context.Context) ([]StockLevel, error)
	OrderStatusCounts(ctx context.Context) ([]OrderStatusCount, error)
}

type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
}

func NewService(repo Repository, txManager tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

func (s *Service) StockLevels(ctx context.Context) (*StockLevelReport, error) {
	var rows []StockLevel
	err := tx.RunReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.StockLevels(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &StockLevelReport{
		GeneratedAt: time.Now().UTC(),
		Items:       rows,
	}, nil
}

func (s *Service) OrderStatus(ctx context.Context) (*OrderStatusReport, error) {
	var counts []OrderStatusCount
	err := tx.RunReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		counts, err = s.repo.OrderStatusCounts(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return &OrderStatusReport{
		GeneratedAt: time.Now().UTC(),
		Counts:      counts,
		Total:       total,
	}, nil
}
