package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/domain/orders"
)

const (
	ordersTable     = "orders"
	orderLinesTable = "order_lines"
)

// OrderRepo implements orders.Repository. Lines are loaded and stored
// together with their order; they have no standalone access path.
type OrderRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

func NewOrderRepo(txm *TxManager) *OrderRepo {
	return &OrderRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the order and all of its lines. Callers are expected to
// run this inside a transaction.
func (r *OrderRepo) Create(ctx context.Context, order *orders.Order) error {
	q := r.builder.Insert(ordersTable).
		Columns("id", "customer_name", "order_date", "status", "version", "created_at", "updated_at").
		Values(order.ID, order.CustomerName, order.OrderDate, order.Status, order.Version, order.CreatedAt, order.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(order.Lines) == 0 {
		return nil
	}

	lq := r.builder.Insert(orderLinesTable).
		Columns("line_id", "order_id", "line_no", "item_id", "quantity", "price")
	for _, line := range order.Lines {
		lq = lq.Values(line.LineID, order.ID, line.LineNo, line.ItemID, line.Quantity.Int64(), line.Price)
	}

	sql, args, err = lq.ToSql()
	if err != nil {
		return fmt.Errorf("build lines insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order lines: %w", err)
	}

	return nil
}

// GetByID returns an order with its lines.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	q := r.builder.Select("id", "customer_name", "order_date", "status", "version", "created_at", "updated_at").
		From(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var order orders.Order
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := r.linesByOrder(ctx, []id.ID{orderID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[orderID]

	return &order, nil
}

// UpdateStatus transitions the order status with optimistic locking.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID id.ID, status orders.Status, expectedVersion int) error {
	q := r.builder.Update(ordersTable).
		Set("status", status).
		Set("version", expectedVersion+1).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{
			"id":      orderID,
			"version": expectedVersion,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the order is gone or someone else changed it first.
		return apperror.NewConcurrentModification("order", orderID.String())
	}

	return nil
}

// List returns orders matching the filter, newest first, with lines.
func (r *OrderRepo) List(ctx context.Context, filter orders.ListFilter) ([]*orders.Order, error) {
	q := r.builder.Select("id", "customer_name", "order_date", "status", "version", "created_at", "updated_at").
		From(ordersTable).
		OrderBy("order_date DESC", "id")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*orders.Order
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]id.ID, len(result))
	for i, o := range result {
		ids[i] = o.ID
	}
	lines, err := r.linesByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range result {
		o.Lines = lines[o.ID]
	}

	return result, nil
}

// orderLineRow carries the order_id alongside the line for grouping.
type orderLineRow struct {
	OrderID id.ID `db:"order_id"`
	orders.OrderLine
}

func (r *OrderRepo) linesByOrder(ctx context.Context, orderIDs []id.ID) (map[id.ID][]orders.OrderLine, error) {
	q := r.builder.Select("line_id", "order_id", "line_no", "item_id", "quantity", "price").
		From(orderLinesTable).
		Where(squirrel.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var rows []orderLineRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select order lines: %w", err)
	}

	grouped := make(map[id.ID][]orders.OrderLine, len(orderIDs))
	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], row.OrderLine)
	}

	return grouped, nil
}

var _ orders.Repository = (*OrderRepo)(nil)
