package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"inventa/internal/domain/reports"
)

// ReportRepo implements reports.Repository with raw SQL; the report
// queries aggregate across tables and do not benefit from a builder.
type ReportRepo struct {
	txm *TxManager
}

func NewReportRepo(txm *TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// StockLevels returns every item with its on-hand quantity and the total
// reserved by orders that are still open. Computed in one statement so
// the two figures are consistent with each other.
func (r *ReportRepo) StockLevels(ctx context.Context) ([]reports.StockLevel, error) {
	sql := `
		SELECT
			i.id AS item_id,
			i.name,
			i.quantity_on_hand,
			COALESCE(SUM(l.quantity) FILTER (WHERE o.status = 'CREATED'), 0) AS reserved
		FROM items i
		LEFT JOIN order_lines l ON l.item_id = i.id
		LEFT JOIN orders o ON o.id = l.order_id
		GROUP BY i.id, i.name, i.quantity_on_hand
		ORDER BY i.name, i.id
	`

	var rows []reports.StockLevel
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql); err != nil {
		return nil, fmt.Errorf("select stock levels: %w", err)
	}

	return rows, nil
}

// OrderStatusCounts counts orders grouped by status.
func (r *ReportRepo) OrderStatusCounts(ctx context.Context) ([]reports.OrderStatusCount, error) {
	sql := `
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
		ORDER BY status
	`

	var rows []reports.OrderStatusCount
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql); err != nil {
		return nil, fmt.Errorf("select order status counts: %w", err)
	}

	return rows, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
