package suppliers

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
)

type memorySupplierRepo struct {
	suppliers map[id.ID]*Supplier
}

func newMemorySupplierRepo() *memorySupplierRepo {
	return &memorySupplierRepo{suppliers: make(map[id.ID]*Supplier)}
}

func (r *memorySupplierRepo) Create(_ context.Context, supplier *Supplier) error {
	for _, existing := range r.suppliers {
		if existing.Name == supplier.Name {
			return apperror.NewDuplicate("supplier", "name", supplier.Name)
		}
	}
	cp := *supplier
	r.suppliers[supplier.ID] = &cp
	return nil
}

func (r *memorySupplierRepo) GetByID(_ context.Context, supplierID id.ID) (*Supplier, error) {
	supplier, ok := r.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	cp := *supplier
	return &cp, nil
}

func (r *memorySupplierRepo) List(_ context.Context) ([]*Supplier, error) {
	out := make([]*Supplier, 0, len(r.suppliers))
	for _, supplier := range r.suppliers {
		cp := *supplier
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memorySupplierRepo) Delete(_ context.Context, supplierID id.ID) error {
	if _, ok := r.suppliers[supplierID]; !ok {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	delete(r.suppliers, supplierID)
	return nil
}

func TestAddSupplier(t *testing.T) {
	svc := NewService(newMemorySupplierRepo(), nil)

	supplier, err := svc.Add(context.Background(), "Acme Wholesale", "orders@acme.example")
	require.NoError(t, err)
	assert.False(t, id.IsNil(supplier.ID))
	assert.Equal(t, "Acme Wholesale", supplier.Name)

	got, err := svc.GetByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, supplier.ID, got.ID)
}

func TestAddSupplier_EmptyName(t *testing.T) {
	svc := NewService(newMemorySupplierRepo(), nil)

	_, err := svc.Add(context.Background(), "   ", "nobody@example.com")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestAddSupplier_DuplicateName(t *testing.T) {
	svc := NewService(newMemorySupplierRepo(), nil)

	_, err := svc.Add(context.Background(), "Acme Wholesale", "")
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "Acme Wholesale", "other contact")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestDeleteSupplier(t *testing.T) {
	svc := NewService(newMemorySupplierRepo(), nil)

	supplier, err := svc.Add(context.Background(), "Acme Wholesale", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), supplier.ID))

	_, err = svc.GetByID(context.Background(), supplier.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteSupplier_NotFound(t *testing.T) {
	svc := NewService(newMemorySupplierRepo(), nil)

	err := svc.Delete(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestListSuppliers_OrderedByName(t *testing.T) {
	svc := NewService(newMemorySupplierRepo(), nil)

	for _, name := range []string{"Zenith Parts", "Acme Wholesale", "Midland Goods"} {
		_, err := svc.Add(context.Background(), name, "")
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Acme Wholesale", list[0].Name)
	assert.Equal(t, "Midland Goods", list[1].Name)
	assert.Equal(t, "Zenith Parts", list[2].Name)
}
