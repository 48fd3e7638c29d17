package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/types"
)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo, nil), repo
}

func TestReserve_DecrementsStock(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 10)
	orderID := id.New()

	err := svc.Reserve(ctx, itemID, 4, orderID)
	require.NoError(t, err)

	onHand, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(6), onHand)

	deltas, err := svc.DeltasByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, types.Quantity(-4), deltas[0].Delta)
	assert.Equal(t, itemID, deltas[0].ItemID)
}

func TestReserve_InsufficientStock(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 3)

	err := svc.Reserve(ctx, itemID, 5, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, itemID.String(), appErr.Details["item_id"])
	assert.Equal(t, int64(5), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	// Shortage must not touch stock or the delta history
	onHand, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(3), onHand)

	deltas, err := svc.Deltas(ctx, itemID)
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestReserve_ExactlyAvailable(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 5)

	err := svc.Reserve(ctx, itemID, 5, id.New())
	require.NoError(t, err)

	onHand, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), onHand)
}

func TestReserve_UnknownItem(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Reserve(context.Background(), id.New(), 1, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReserve_NonPositiveQuantity(t *testing.T) {
	svc, repo := newTestService()
	itemID := id.New()
	repo.PutItem(itemID, 10)

	for _, qty := range []types.Quantity{0, -3} {
		err := svc.Reserve(context.Background(), itemID, qty, id.New())
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestReserve_NegativeOnHandIsFatal(t *testing.T) {
	svc, repo := newTestService()

	itemID := id.New()
	repo.PutItem(itemID, -1)

	err := svc.Reserve(context.Background(), itemID, 1, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsLedgerInvariant(err))
}

func TestRelease_IncrementsStock(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 6)
	orderID := id.New()

	err := svc.Release(ctx, itemID, 4, orderID)
	require.NoError(t, err)

	onHand, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(10), onHand)

	deltas, err := svc.DeltasByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, types.Quantity(4), deltas[0].Delta)
}

func TestRelease_OverflowIsFatal(t *testing.T) {
	svc, repo := newTestService()

	itemID := id.New()
	repo.PutItem(itemID, types.Quantity(1<<62))

	err := svc.Release(context.Background(), itemID, types.Quantity(1<<62), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsLedgerInvariant(err))
}

func TestSetOnHand_RecordsAdjustmentDelta(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 10)

	err := svc.SetOnHand(ctx, itemID, 4)
	require.NoError(t, err)

	onHand, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(4), onHand)

	deltas, err := svc.Deltas(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, types.Quantity(-6), deltas[0].Delta)
	assert.True(t, id.IsNil(deltas[0].CauseOrderID))
}

func TestSetOnHand_NoopWhenUnchanged(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 7)

	err := svc.SetOnHand(ctx, itemID, 7)
	require.NoError(t, err)

	deltas, err := svc.Deltas(ctx, itemID)
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestConcurrentReserves_NeverOversell(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 5)

	// Two concurrent reservations of 3 against 5 on hand: exactly one
	// must succeed, and stock must never go negative.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Reserve(ctx, itemID, 3, id.New())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsInsufficientStock(err))
		}
	}
	assert.Equal(t, 1, succeeded)

	onHand, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(2), onHand)
}

func TestDeltaHistory_SumsToOnHand(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	itemID := id.New()
	repo.PutItem(itemID, 0)

	require.NoError(t, svc.SetOnHand(ctx, itemID, 20))
	require.NoError(t, svc.Reserve(ctx, itemID, 7, id.New()))
	require.NoError(t, svc.Release(ctx, itemID, 2, id.New()))
	require.NoError(t, svc.SetOnHand(ctx, itemID, 30))

	deltas, err := svc.Deltas(ctx, itemID)
	require.NoError(t, err)

	var sum types.Quantity
	for _, d := range deltas {
		sum += d.Delta
	}

	onHand, err := svc.OnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, onHand, sum)
}
