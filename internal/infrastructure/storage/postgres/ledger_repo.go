package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/types"
	"inventa/internal/domain/ledger"
)

const (
	itemsTable       = "items"
	stockDeltasTable = "stock_deltas"
)

// LedgerRepo implements ledger.Repository over the items and stock_deltas
// tables. On-hand quantity lives on the item row; deltas are append-only.
type LedgerRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetOnHand returns the current on-hand quantity for an item.
func (r *LedgerRepo) GetOnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	q := r.builder.Select("quantity_on_hand").
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var onHand int64
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &onHand, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound("item", itemID.String())
		}
		return 0, fmt.Errorf("get on-hand: %w", err)
	}

	return types.Quantity(onHand), nil
}

// GetOnHandForUpdate returns the on-hand quantity with a pessimistic lock
// on the item row. Must run inside a transaction to be effective.
func (r *LedgerRepo) GetOnHandForUpdate(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	sql := `
		SELECT quantity_on_hand
		FROM items
		WHERE id = $1
		FOR UPDATE
	`

	var onHand int64
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &onHand, sql, itemID); err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound("item", itemID.String())
		}
		return 0, fmt.Errorf("get on-hand for update: %w", err)
	}

	return types.Quantity(onHand), nil
}

// SetOnHand writes the new on-hand quantity and bumps the item version.
func (r *LedgerRepo) SetOnHand(ctx context.Context, itemID id.ID, qty types.Quantity) error {
	q := r.builder.Update(itemsTable).
		Set("quantity_on_hand", qty.Int64()).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set on-hand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}

	return nil
}

// AppendDelta inserts a stock delta row.
func (r *LedgerRepo) AppendDelta(ctx context.Context, delta ledger.StockDelta) error {
	// Manual adjustments carry the nil UUID as cause. Stored as-is, there
	// is no foreign key on cause_order_id.
	q := r.builder.Insert(stockDeltasTable).
		Columns("id", "item_id", "delta", "cause_order_id", "created_at").
		Values(delta.ID, delta.ItemID, delta.Delta.Int64(), delta.CauseOrderID, delta.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert delta: %w", err)
	}

	return nil
}

// DeltasByItem returns all deltas for an item in chronological order.
func (r *LedgerRepo) DeltasByItem(ctx context.Context, itemID id.ID) ([]ledger.StockDelta, error) {
	q := r.builder.Select("id", "item_id", "delta", "cause_order_id", "created_at").
		From(stockDeltasTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var deltas []ledger.StockDelta
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &deltas, sql, args...); err != nil {
		return nil, fmt.Errorf("select deltas: %w", err)
	}

	return deltas, nil
}

// DeltasByOrder returns all deltas caused by an order.
func (r *LedgerRepo) DeltasByOrder(ctx context.Context, orderID id.ID) ([]ledger.StockDelta, error) {
	q := r.builder.Select("id", "item_id", "delta", "cause_order_id", "created_at").
		From(stockDeltasTable).
		Where(squirrel.Eq{"cause_order_id": orderID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var deltas []ledger.StockDelta
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &deltas, sql, args...); err != nil {
		return nil, fmt.Errorf("select deltas: %w", err)
	}

	return deltas, nil
}

var _ ledger.Repository = (*LedgerRepo)(nil)
