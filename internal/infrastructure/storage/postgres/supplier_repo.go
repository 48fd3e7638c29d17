package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/domain/suppliers"
)

const suppliersTable = "suppliers"

// SupplierRepo implements suppliers.Repository.
type SupplierRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

func NewSupplierRepo(txm *TxManager) *SupplierRepo {
	return &SupplierRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SupplierRepo) Create(ctx context.Context, supplier *suppliers.Supplier) error {
	q := r.builder.Insert(suppliersTable).
		Columns("id", "name", "contact_info", "created_at").
		Values(supplier.ID, supplier.Name, supplier.ContactInfo, supplier.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("supplier", "name", supplier.Name)
		}
		return fmt.Errorf("insert supplier: %w", err)
	}

	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*suppliers.Supplier, error) {
	q := r.builder.Select("id", "name", "contact_info", "created_at").
		From(suppliersTable).
		Where(squirrel.Eq{"id": supplierID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var supplier suppliers.Supplier
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &supplier, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}

	return &supplier, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*suppliers.Supplier, error) {
	q := r.builder.Select("id", "name", "contact_info", "created_at").
		From(suppliersTable).
		OrderBy("name", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*suppliers.Supplier
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}

	return result, nil
}

func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	q := r.builder.Delete(suppliersTable).
		Where(squirrel.Eq{"id": supplierID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}

	return nil
}

var _ suppliers.Repository = (*SupplierRepo)(nil)
