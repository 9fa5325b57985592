package ledger

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/catalog"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	mu              sync.Mutex
	records         []MovementRecord
	lastRecentLimit int
}

func (r *memRepo) Insert(_ context.Context, rec *MovementRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, t tenant.ID, recID id.ID) (*MovementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == recID && r.records[i].TenantID == t {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, apperror.NewNotFound("movement", recID)
}

func (r *memRepo) ListForReplay(_ context.Context, t tenant.ID, itemID id.ID) ([]MovementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []MovementRecord
	for _, rec := range r.records {
		if rec.TenantID == t && rec.ItemID == itemID {
			out = append(out, rec)
		}
	}
	SortForReplay(out)
	return out, nil
}

func (r *memRepo) List(_ context.Context, t tenant.ID, f Filter) ([]MovementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []MovementRecord
	for _, rec := range r.records {
		if rec.TenantID != t {
			continue
		}
		if f.ItemID != nil && rec.ItemID != *f.ItemID {
			continue
		}
		if f.Kind != nil && rec.Kind != *f.Kind {
			continue
		}
		if f.FromDate != nil && rec.MovementDate.Before(Day(*f.FromDate)) {
			continue
		}
		if f.ToDate != nil && rec.MovementDate.After(Day(*f.ToDate)) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MovementDate.Equal(out[j].MovementDate) {
			return out[i].MovementDate.After(out[j].MovementDate)
		}
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out, nil
}

func (r *memRepo) ListRecent(_ context.Context, t tenant.ID, limit int) ([]MovementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRecentLimit = limit
	var out []MovementRecord
	for _, rec := range r.records {
		if rec.TenantID == t {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) ListAllTenants(_ context.Context, f Filter) ([]MovementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MovementRecord, len(r.records))
	copy(out, r.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memRepo) CountByItem(_ context.Context, itemID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.records {
		if rec.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) AcquireItemLock(_ context.Context, _ tenant.ID, _ id.ID) error {
	return nil
}

// memItems is an in-memory catalog lookup.
type memItems struct {
	items map[id.ID]*catalog.Item
}

func newMemItems(items ...*catalog.Item) *memItems {
	m := &memItems{items: make(map[id.ID]*catalog.Item)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *memItems) GetByID(_ context.Context, itemID id.ID) (*catalog.Item, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID)
	}
	return item, nil
}

func (m *memItems) GetByIDs(_ context.Context, itemIDs []id.ID) (map[id.ID]*catalog.Item, error) {
	out := make(map[id.ID]*catalog.Item)
	for _, itemID := range itemIDs {
		if item, ok := m.items[itemID]; ok {
			out[itemID] = item
		}
	}
	return out, nil
}

// passthroughTx runs the function directly, without a database.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(items ...*catalog.Item) (*Service, *memRepo) {
	repo := &memRepo{}
	return NewService(repo, newMemItems(items...), passthroughTx{}, nil), repo
}

func TestRecordMovementSnapshots(t *testing.T) {
	ctx := context.Background()
	item := catalog.NewItem("CX-0500", "Box 500g", types.MustMoney("12.50"))
	svc, _ := newTestService(item)

	first, err := svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: KindEntry, Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.PreviousQuantity)
	assert.Equal(t, int64(50), first.CurrentQuantity)

	second, err := svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: KindExit, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(50), second.PreviousQuantity)
	assert.Equal(t, int64(40), second.CurrentQuantity)

	third, err := svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: KindAdjust, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(40), third.PreviousQuantity)
	assert.Equal(t, int64(45), third.CurrentQuantity)
}

func TestRecordMovementTenantIsolation(t *testing.T) {
	ctx := context.Background()
	item := catalog.NewItem("CX-0500", "Box 500g", types.MustMoney("12.50"))
	svc, _ := newTestService(item)

	_, err := svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: KindEntry, Quantity: 50})
	require.NoError(t, err)

	// The other tenant's balance starts from its own empty partition.
	rec, err := svc.RecordMovement(ctx, tenant.White, RecordInput{ItemID: item.ID, Kind: KindEntry, Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.PreviousQuantity)
	assert.Equal(t, int64(7), rec.CurrentQuantity)
}

func TestRecordMovementValidation(t *testing.T) {
	ctx := context.Background()
	item := catalog.NewItem("CX-0500", "Box 500g", types.MustMoney("12.50"))
	svc, _ := newTestService(item)

	_, err := svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: "BOGUS", Quantity: 1})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnknownMovementKind, appErr.Code)

	_, err = svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: KindEntry, Quantity: 0})
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)

	_, err = svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: id.New(), Kind: KindEntry, Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordForcedReduction(t *testing.T) {
	ctx := context.Background()
	item := catalog.NewItem("CX-0500", "Box 500g", types.MustMoney("12.50"))
	svc, _ := newTestService(item)

	_, err := svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: KindEntry, Quantity: 10})
	require.NoError(t, err)

	rec, negative, err := svc.RecordForcedReduction(ctx, tenant.Red, item.ID, 4, time.Now(), "sale")
	require.NoError(t, err)
	assert.False(t, negative)
	assert.Equal(t, KindSale, rec.Kind)
	assert.Equal(t, int64(6), rec.CurrentQuantity)

	// No sufficiency check: the reduction goes through and flags the deficit.
	rec, negative, err = svc.RecordForcedReduction(ctx, tenant.Red, item.ID, 9, time.Now(), "sale")
	require.NoError(t, err)
	assert.True(t, negative)
	assert.Equal(t, int64(-3), rec.CurrentQuantity)
}

func TestRecordForcedReductionRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	item := catalog.NewItem("CX-0500", "Box 500g", types.MustMoney("12.50"))
	svc, _ := newTestService(item)

	_, _, err := svc.RecordForcedReduction(ctx, tenant.Red, item.ID, 0, time.Now(), "")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
}

func TestHasSufficientStock(t *testing.T) {
	ctx := context.Background()
	item := catalog.NewItem("CX-0500", "Box 500g", types.MustMoney("12.50"))
	svc, _ := newTestService(item)

	_, err := svc.RecordMovement(ctx, tenant.Red, RecordInput{ItemID: item.ID, Kind: KindEntry, Quantity: 5})
	require.NoError(t, err)

	ok, err := svc.HasSufficientStock(ctx, tenant.Red, item.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasSufficientStock(ctx, tenant.Red, item.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	// Non-positive requests always succeed.
	ok, err = svc.HasSufficientStock(ctx, tenant.Red, item.ID, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQuantityAtPastDate(t *testing.T) {
	ctx := context.Background()
	item := catalog.NewItem("CX-0500", "Box 500g", types.MustMoney("12.50"))
	svc, repo := newTestService(item)

	seed := []MovementRecord{
		{ID: id.New(), ItemID: item.ID, TenantID: tenant.Red, Kind: KindEntry, Quantity: 50, MovementDate: date(2026, 3, 1), RegisteredAt: date(2026, 3, 1)},
		{ID: id.New(), ItemID: item.ID, TenantID: tenant.Red, Kind: KindExit, Quantity: 10, MovementDate: date(2026, 3, 5), RegisteredAt: date(2026, 3, 5)},
	}
	for i := range seed {
		require.NoError(t, repo.Insert(ctx, &seed[i]))
	}

	qty, err := svc.QuantityAt(ctx, tenant.Red, item.ID, date(2026, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(50), qty)

	qty, err = svc.QuantityAt(ctx, tenant.Red, item.ID, date(2026, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(40), qty)
}

func TestQuantityAtUnknownItem(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.QuantityAt(context.Background(), tenant.Red, id.New(), time.Now())
	assert.True(t, apperror.IsNotFound(err))
}

func TestListConsolidatedPrivilege(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.ListConsolidated(ctx, tenant.White, Filter{})
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.ListConsolidated(ctx, tenant.Red, Filter{})
	assert.NoError(t, err)
}
