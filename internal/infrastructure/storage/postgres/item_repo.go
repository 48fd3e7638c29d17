package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/domain/items"
)

// ItemRepo implements items.Repository.
type ItemRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

func NewItemRepo(txm *TxManager) *ItemRepo {
	return &ItemRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ItemRepo) Create(ctx context.Context, item *items.Item) error {
	q := r.builder.Insert(itemsTable).
		Columns("id", "name", "quantity_on_hand", "version", "created_at", "updated_at").
		Values(item.ID, item.Name, item.QuantityOnHand.Int64(), item.Version, item.CreatedAt, item.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("item", "name", item.Name)
		}
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*items.Item, error) {
	q := r.builder.Select("id", "name", "quantity_on_hand", "version", "created_at", "updated_at").
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item items.Item
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return &item, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]*items.Item, error) {
	q := r.builder.Select("id", "name", "quantity_on_hand", "version", "created_at", "updated_at").
		From(itemsTable).
		OrderBy("name", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*items.Item
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	return result, nil
}

func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	q := r.builder.Delete(itemsTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ items.Repository = (*ItemRepo)(nil)
