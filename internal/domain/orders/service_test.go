package orders

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/types"
	"inventa/internal/domain/ledger"
	"inventa/internal/domain/posting"
)

// memoryOrderRepo is an in-memory Repository for tests.
type memoryOrderRepo struct {
	mu     sync.Mutex
	orders map[id.ID]*Order

	failCreate       error
	failUpdateStatus error
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[id.ID]*Order)}
}

func (r *memoryOrderRepo) Create(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *order
	cp.Lines = append([]OrderLine(nil), order.Lines...)
	r.orders[order.ID] = &cp
	return nil
}

func (r *memoryOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	cp := *order
	cp.Lines = append([]OrderLine(nil), order.Lines...)
	return &cp, nil
}

func (r *memoryOrderRepo) UpdateStatus(ctx context.Context, orderID id.ID, status Status, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateStatus != nil {
		return r.failUpdateStatus
	}
	order, ok := r.orders[orderID]
	if !ok || order.Version != expectedVersion {
		return apperror.NewConcurrentModification("order", orderID.String())
	}
	order.Status = status
	order.Version++
	return nil
}

func (r *memoryOrderRepo) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

var _ Repository = (*memoryOrderRepo)(nil)

type orderFixture struct {
	svc        *Service
	repo       *memoryOrderRepo
	ledgerRepo *ledger.MemoryRepository
}

func newOrderFixture() *orderFixture {
	ledgerRepo := ledger.NewMemoryRepository()
	engine := posting.NewEngine(ledger.NewService(ledgerRepo, nil))
	repo := newMemoryOrderRepo()
	return &orderFixture{
		svc:        NewService(repo, engine, nil, nil),
		repo:       repo,
		ledgerRepo: ledgerRepo,
	}
}

func (f *orderFixture) onHand(t *testing.T, itemID id.ID) types.Quantity {
	t.Helper()
	qty, err := f.ledgerRepo.GetOnHand(context.Background(), itemID)
	require.NoError(t, err)
	return qty
}

func TestCreateOrder_ReservesAndPersists(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)

	order, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: itemID, Quantity: 4},
	})
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, StatusCreated, order.Status)
	assert.Equal(t, types.Quantity(6), f.onHand(t, itemID))

	stored, err := f.repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, types.Quantity(4), stored.Lines[0].Quantity)
}

func TestCreateThenCancel_RestoresStock(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)

	order, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: itemID, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(6), f.onHand(t, itemID))

	require.NoError(t, f.svc.Cancel(ctx, order.ID))
	assert.Equal(t, types.Quantity(10), f.onHand(t, itemID))

	stored, err := f.repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)

	// Stock restored; a larger order than on-hand still fails.
	_, err = f.svc.Create(ctx, "bob", []LineInput{
		{ItemID: itemID, Quantity: 11},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, types.Quantity(10), f.onHand(t, itemID))
}

func TestCreateOrder_ShortageLeavesNothingBehind(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemA, itemB := id.New(), id.New()
	f.ledgerRepo.PutItem(itemA, 10)
	f.ledgerRepo.PutItem(itemB, 2)

	_, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: itemA, Quantity: 3},
		{ItemID: itemB, Quantity: 5},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, types.Quantity(10), f.onHand(t, itemA))
	assert.Equal(t, types.Quantity(2), f.onHand(t, itemB))

	list, err := f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateOrder_PersistFailureReversesReservations(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)
	f.repo.failCreate = errors.New("connection reset")

	_, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: itemID, Quantity: 4},
	})
	require.Error(t, err)

	// Reservation must not survive a failed persist.
	assert.Equal(t, types.Quantity(10), f.onHand(t, itemID))
}

func TestCreateOrder_MergesDuplicateItemLines(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)

	order, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: itemID, Quantity: 2},
		{ItemID: itemID, Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, types.Quantity(5), order.Lines[0].Quantity)
	assert.Equal(t, types.Quantity(5), f.onHand(t, itemID))
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)

	cases := []struct {
		name     string
		customer string
		lines    []LineInput
	}{
		{"empty customer", "  ", []LineInput{{ItemID: itemID, Quantity: 1}}},
		{"no lines", "alice", nil},
		{"nil item", "alice", []LineInput{{Quantity: 1}}},
		{"zero quantity", "alice", []LineInput{{ItemID: itemID, Quantity: 0}}},
		{"negative quantity", "alice", []LineInput{{ItemID: itemID, Quantity: -2}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.customer, tc.lines)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
			assert.Equal(t, types.Quantity(10), f.onHand(t, itemID))
		})
	}
}

func TestCancel_UnknownOrder(t *testing.T) {
	f := newOrderFixture()

	err := f.svc.Cancel(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)

	order, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: itemID, Quantity: 4},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, order.ID))

	deltasBefore, err := f.ledgerRepo.DeltasByOrder(ctx, order.ID)
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))

	// Second cancel must not touch the ledger.
	deltasAfter, err := f.ledgerRepo.DeltasByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, deltasBefore, deltasAfter)
	assert.Equal(t, types.Quantity(10), f.onHand(t, itemID))
}

// rendezvousOrderRepo holds the first two GetByID callers at a barrier so
// both read the order before either one writes, the interleaving a
// read-committed store allows two concurrent cancellers.
type rendezvousOrderRepo struct {
	Repository
	gate  *sync.WaitGroup
	reads int32
}

func (r *rendezvousOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	order, err := r.Repository.GetByID(ctx, orderID)
	if err == nil && atomic.AddInt32(&r.reads, 1) <= 2 {
		r.gate.Done()
		r.gate.Wait()
	}
	return order, err
}

func TestCancel_ConcurrentCancelsReleaseOnce(t *testing.T) {
	ledgerRepo := ledger.NewMemoryRepository()
	engine := posting.NewEngine(ledger.NewService(ledgerRepo, nil))

	var gate sync.WaitGroup
	gate.Add(2)
	repo := &rendezvousOrderRepo{Repository: newMemoryOrderRepo(), gate: &gate}
	svc := NewService(repo, engine, nil, nil)

	ctx := context.Background()
	itemID := id.New()
	ledgerRepo.PutItem(itemID, 10)

	order, err := svc.Create(ctx, "alice", []LineInput{{ItemID: itemID, Quantity: 4}})
	require.NoError(t, err)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { errs <- svc.Cancel(ctx, order.ID) }()
	}
	first, second := <-errs, <-errs
	if first != nil {
		first, second = second, first
	}

	// Exactly one cancel wins; the loser reports the transition conflict.
	require.NoError(t, first)
	require.Error(t, second)
	assert.True(t, apperror.IsInvalidTransition(second))

	qty, err := ledgerRepo.GetOnHand(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(10), qty)

	// One reserve plus one release; the losing cancel wrote nothing.
	deltas, err := ledgerRepo.DeltasByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, deltas, 2)
}

func TestCancel_PersistFailureLeavesReservationIntact(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)

	order, err := f.svc.Create(ctx, "alice", []LineInput{{ItemID: itemID, Quantity: 4}})
	require.NoError(t, err)

	f.repo.failUpdateStatus = errors.New("connection reset")

	err = f.svc.Cancel(ctx, order.ID)
	require.Error(t, err)

	// The transition was never claimed, so no stock moved.
	assert.Equal(t, types.Quantity(6), f.onHand(t, itemID))
	deltas, err := f.ledgerRepo.DeltasByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, deltas, 1)

	// Once the store recovers the same cancel goes through cleanly.
	f.repo.failUpdateStatus = nil
	require.NoError(t, f.svc.Cancel(ctx, order.ID))
	assert.Equal(t, types.Quantity(10), f.onHand(t, itemID))
}

func TestCancel_DanglingItemReferenceIsFatal(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 10)

	order, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: itemID, Quantity: 4},
	})
	require.NoError(t, err)

	// Item deleted while the order still holds a reservation.
	f.ledgerRepo.RemoveItem(itemID)

	err = f.svc.Cancel(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsLedgerInvariant(err))

	// The order stays in CREATED; nothing was silently dropped.
	stored, err := f.repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, stored.Status)
}

func TestCancel_MultiLineDanglingItemDoesNotDriftOnRetry(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	first, second := id.New(), id.New()
	if id.Compare(first, second) > 0 {
		first, second = second, first
	}
	f.ledgerRepo.PutItem(first, 10)
	f.ledgerRepo.PutItem(second, 10)

	order, err := f.svc.Create(ctx, "alice", []LineInput{
		{ItemID: first, Quantity: 3},
		{ItemID: second, Quantity: 4},
	})
	require.NoError(t, err)

	// The line reversed last goes missing, so the first line's release has
	// already been applied when the failure hits and must be re-reserved.
	f.ledgerRepo.RemoveItem(second)

	for attempt := 0; attempt < 2; attempt++ {
		err = f.svc.Cancel(ctx, order.ID)
		require.Error(t, err)
		assert.True(t, apperror.IsLedgerInvariant(err))
		assert.Equal(t, types.Quantity(7), f.onHand(t, first))
	}

	stored, err := f.repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, stored.Status)
}

func TestList_FilterByStatus(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	itemID := id.New()
	f.ledgerRepo.PutItem(itemID, 100)

	first, err := f.svc.Create(ctx, "alice", []LineInput{{ItemID: itemID, Quantity: 1}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "bob", []LineInput{{ItemID: itemID, Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, first.ID))

	cancelled := StatusCancelled
	list, err := f.svc.List(ctx, ListFilter{Status: &cancelled})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
}
