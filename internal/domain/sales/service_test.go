package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/ledger"
)

// memSaleRepo is an in-memory Repository for service tests.
type memSaleRepo struct {
	sales map[id.ID]*SaleRecord
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[id.ID]*SaleRecord)}
}

func (r *memSaleRepo) Create(_ context.Context, sale *SaleRecord) error {
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

func (r *memSaleRepo) Delete(_ context.Context, t tenant.ID, saleID id.ID) error {
	if sale, ok := r.sales[saleID]; !ok || sale.TenantID != t {
		return apperror.NewNotFound("sale", saleID)
	}
	delete(r.sales, saleID)
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, t tenant.ID, saleID id.ID) (*SaleRecord, error) {
	sale, ok := r.sales[saleID]
	if !ok || sale.TenantID != t {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return sale, nil
}

func (r *memSaleRepo) List(_ context.Context, t tenant.ID, f Filter) ([]SaleRecord, error) {
	var out []SaleRecord
	for _, sale := range r.sales {
		if sale.TenantID == t {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (r *memSaleRepo) ListRange(_ context.Context, t tenant.ID, from, to time.Time) ([]SaleRecord, error) {
	var out []SaleRecord
	for _, sale := range r.sales {
		if sale.TenantID != t || sale.Date.Before(from) || sale.Date.After(to) {
			continue
		}
		out = append(out, *sale)
	}
	return out, nil
}

// fakeStock records forced reductions and reports a fixed running balance
// per item.
type fakeStock struct {
	balances   map[id.ID]int64
	reductions []id.ID
}

func (s *fakeStock) RecordForcedReduction(_ context.Context, t tenant.ID, itemID id.ID, quantity int64, movementDate time.Time, note string) (*ledger.MovementRecord, bool, error) {
	s.reductions = append(s.reductions, itemID)
	balance := s.balances[itemID] - quantity
	s.balances[itemID] = balance
	rec := &ledger.MovementRecord{
		ID:              id.New(),
		ItemID:          itemID,
		TenantID:        t,
		Kind:            ledger.KindSale,
		Quantity:        quantity,
		MovementDate:    movementDate,
		CurrentQuantity: balance,
		Note:            note,
	}
	return rec, balance < 0, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestCreateSaleReducesStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemSaleRepo()
	itemID := id.New()
	stock := &fakeStock{balances: map[id.ID]int64{itemID: 10}}
	svc := NewService(repo, stock, passthroughTx{})

	sale := &SaleRecord{
		Type:  SaleNormal,
		Lines: []SaleLine{{ItemID: itemID, Quantity: 4, UnitPrice: types.MustMoney("12.50")}},
	}
	warnings, err := svc.Create(ctx, tenant.Red, sale)
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Equal(t, []id.ID{itemID}, stock.reductions)
	assert.False(t, id.IsNil(sale.ID))
	assert.Equal(t, tenant.Red, sale.TenantID)

	stored, err := repo.GetByID(ctx, tenant.Red, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, SaleNormal, stored.Type)
}

func TestCreateSaleWarnsOnNegativeBalance(t *testing.T) {
	ctx := context.Background()
	repo := newMemSaleRepo()
	itemID := id.New()
	stock := &fakeStock{balances: map[id.ID]int64{itemID: 2}}
	svc := NewService(repo, stock, passthroughTx{})

	sale := &SaleRecord{
		Type:  SaleNormal,
		Lines: []SaleLine{{ItemID: itemID, Quantity: 5, UnitPrice: types.MustMoney("12.50")}},
	}
	warnings, err := svc.Create(ctx, tenant.Red, sale)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, itemID, warnings[0].ItemID)
	assert.Equal(t, int64(-3), warnings[0].Balance)
}

func TestCreateSaleExtraWithoutLines(t *testing.T) {
	ctx := context.Background()
	repo := newMemSaleRepo()
	stock := &fakeStock{balances: map[id.ID]int64{}}
	svc := NewService(repo, stock, passthroughTx{})

	sale := &SaleRecord{Type: SaleExtra, ExtraValue: types.MustMoney("25.00")}
	warnings, err := svc.Create(ctx, tenant.Red, sale)
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Empty(t, stock.reductions, "an EXTRA sale touches no stock")
}

func TestCreateSaleValidationFailure(t *testing.T) {
	svc := NewService(newMemSaleRepo(), &fakeStock{balances: map[id.ID]int64{}}, passthroughTx{})

	_, err := svc.Create(context.Background(), tenant.Red, &SaleRecord{Type: SaleNormal})
	assert.Error(t, err)
}

func TestCreateSaleTruncatesDate(t *testing.T) {
	ctx := context.Background()
	repo := newMemSaleRepo()
	itemID := id.New()
	stock := &fakeStock{balances: map[id.ID]int64{itemID: 100}}
	svc := NewService(repo, stock, passthroughTx{})

	sale := &SaleRecord{
		Type:  SaleNormal,
		Lines: []SaleLine{{ItemID: itemID, Quantity: 1, UnitPrice: types.MustMoney("9.90")}},
		Date:  time.Date(2026, 3, 5, 17, 45, 3, 0, time.UTC),
	}
	_, err := svc.Create(ctx, tenant.Red, sale)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), sale.Date)
}

func TestDeleteSale(t *testing.T) {
	ctx := context.Background()
	repo := newMemSaleRepo()
	itemID := id.New()
	stock := &fakeStock{balances: map[id.ID]int64{itemID: 10}}
	svc := NewService(repo, stock, passthroughTx{})

	sale := &SaleRecord{
		Type:  SaleNormal,
		Lines: []SaleLine{{ItemID: itemID, Quantity: 1, UnitPrice: types.MustMoney("9.90")}},
	}
	_, err := svc.Create(ctx, tenant.Red, sale)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tenant.Red, sale.ID))
	_, err = repo.GetByID(ctx, tenant.Red, sale.ID)
	assert.True(t, apperror.IsNotFound(err))

	// Deleting does not touch the ledger.
	assert.Len(t, stock.reductions, 1)

	err = svc.Delete(ctx, tenant.Red, id.New())
	assert.True(t, apperror.IsNotFound(err))
}
