package posting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/types"
	"inventa/internal/domain/ledger"
)

func newTestEngine() (*Engine, *ledger.MemoryRepository) {
	repo := ledger.NewMemoryRepository()
	return NewEngine(ledger.NewService(repo, nil)), repo
}

func onHand(t *testing.T, repo *ledger.MemoryRepository, itemID id.ID) types.Quantity {
	t.Helper()
	qty, err := repo.GetOnHand(context.Background(), itemID)
	require.NoError(t, err)
	return qty
}

func TestApplyAll_ReservesEveryItem(t *testing.T) {
	engine, repo := newTestEngine()
	ctx := context.Background()

	itemA, itemB := id.New(), id.New()
	repo.PutItem(itemA, 10)
	repo.PutItem(itemB, 8)
	orderID := id.New()

	err := engine.ApplyAll(ctx, orderID, []ItemDelta{
		{ItemID: itemA, Quantity: -3},
		{ItemID: itemB, Quantity: -5},
	})
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(7), onHand(t, repo, itemA))
	assert.Equal(t, types.Quantity(3), onHand(t, repo, itemB))
}

func TestApplyAll_FailureRollsBackAppliedDeltas(t *testing.T) {
	engine, repo := newTestEngine()
	ctx := context.Background()

	itemA, itemB := id.New(), id.New()
	repo.PutItem(itemA, 10)
	repo.PutItem(itemB, 2)

	err := engine.ApplyAll(ctx, id.New(), []ItemDelta{
		{ItemID: itemA, Quantity: -3},
		{ItemID: itemB, Quantity: -5},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Whichever item was charged first must be compensated back.
	assert.Equal(t, types.Quantity(10), onHand(t, repo, itemA))
	assert.Equal(t, types.Quantity(2), onHand(t, repo, itemB))
}

func TestApplyAll_FirstFailureShortCircuits(t *testing.T) {
	engine, repo := newTestEngine()
	ctx := context.Background()

	itemA, itemB := id.New(), id.New()
	repo.PutItem(itemA, 0)
	repo.PutItem(itemB, 100)

	err := engine.ApplyAll(ctx, id.New(), []ItemDelta{
		{ItemID: itemA, Quantity: -1},
		{ItemID: itemB, Quantity: -1},
	})
	require.Error(t, err)

	assert.Equal(t, types.Quantity(0), onHand(t, repo, itemA))
	assert.Equal(t, types.Quantity(100), onHand(t, repo, itemB))
}

func TestApplyAll_EmptyDeltas(t *testing.T) {
	engine, _ := newTestEngine()
	require.NoError(t, engine.ApplyAll(context.Background(), id.New(), nil))
}

func TestApplyAll_DoesNotMutateInput(t *testing.T) {
	engine, repo := newTestEngine()
	ctx := context.Background()

	itemA, itemB := id.New(), id.New()
	repo.PutItem(itemA, 10)
	repo.PutItem(itemB, 10)

	deltas := []ItemDelta{
		{ItemID: itemB, Quantity: -1},
		{ItemID: itemA, Quantity: -1},
	}
	require.NoError(t, engine.ApplyAll(ctx, id.New(), deltas))

	// The caller's slice keeps its original order.
	assert.Equal(t, itemB, deltas[0].ItemID)
	assert.Equal(t, itemA, deltas[1].ItemID)
}

func TestReverseAll_ReleasesReservations(t *testing.T) {
	engine, repo := newTestEngine()
	ctx := context.Background()

	itemA, itemB := id.New(), id.New()
	repo.PutItem(itemA, 10)
	repo.PutItem(itemB, 10)
	orderID := id.New()

	deltas := []ItemDelta{
		{ItemID: itemA, Quantity: -4},
		{ItemID: itemB, Quantity: -6},
	}
	require.NoError(t, engine.ApplyAll(ctx, orderID, deltas))
	require.NoError(t, engine.ReverseAll(ctx, orderID, deltas))

	assert.Equal(t, types.Quantity(10), onHand(t, repo, itemA))
	assert.Equal(t, types.Quantity(10), onHand(t, repo, itemB))
}

func TestReverseAll_FailureRollsBackAppliedReleases(t *testing.T) {
	engine, repo := newTestEngine()
	ctx := context.Background()

	itemA, itemB := id.New(), id.New()
	if id.Compare(itemA, itemB) > 0 {
		itemA, itemB = itemB, itemA
	}
	repo.PutItem(itemA, 10)
	repo.PutItem(itemB, 10)
	orderID := id.New()

	deltas := []ItemDelta{
		{ItemID: itemA, Quantity: -4},
		{ItemID: itemB, Quantity: -6},
	}
	require.NoError(t, engine.ApplyAll(ctx, orderID, deltas))

	// itemB reverses after itemA, so itemA's release has already landed
	// when the failure hits and must be taken back.
	repo.RemoveItem(itemB)

	err := engine.ReverseAll(ctx, orderID, deltas)
	require.Error(t, err)
	assert.Equal(t, types.Quantity(6), onHand(t, repo, itemA))
}

func TestReverseAll_MissingItemPropagates(t *testing.T) {
	engine, repo := newTestEngine()
	ctx := context.Background()

	itemA := id.New()
	repo.PutItem(itemA, 10)
	orderID := id.New()

	deltas := []ItemDelta{{ItemID: itemA, Quantity: -4}}
	require.NoError(t, engine.ApplyAll(ctx, orderID, deltas))

	repo.RemoveItem(itemA)

	err := engine.ReverseAll(ctx, orderID, deltas)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
