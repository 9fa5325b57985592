package expense

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
)

// memExpenseRepo is an in-memory Repository for service tests.
type memExpenseRepo struct {
	expenses map[id.ID]*Expense
}

func newMemExpenseRepo() *memExpenseRepo {
	return &memExpenseRepo{expenses: make(map[id.ID]*Expense)}
}

func (r *memExpenseRepo) Create(_ context.Context, e *Expense) error {
	copied := *e
	r.expenses[e.ID] = &copied
	return nil
}

func (r *memExpenseRepo) Delete(_ context.Context, t tenant.ID, expenseID id.ID) error {
	if e, ok := r.expenses[expenseID]; !ok || e.TenantID != t {
		return apperror.NewNotFound("expense", expenseID)
	}
	delete(r.expenses, expenseID)
	return nil
}

func (r *memExpenseRepo) GetByID(_ context.Context, t tenant.ID, expenseID id.ID) (*Expense, error) {
	e, ok := r.expenses[expenseID]
	if !ok || e.TenantID != t {
		return nil, apperror.NewNotFound("expense", expenseID)
	}
	return e, nil
}

func (r *memExpenseRepo) List(_ context.Context, t tenant.ID, f Filter) ([]Expense, error) {
	var out []Expense
	for _, e := range r.expenses {
		if e.TenantID != t {
			continue
		}
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *memExpenseRepo) SumByCategory(_ context.Context, t tenant.ID, from, to time.Time) (map[Category]types.Money, error) {
	sums := make(map[Category]types.Money)
	for _, e := range r.expenses {
		if e.TenantID != t || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		total, ok := sums[e.Category]
		if !ok {
			total = types.Zero()
		}
		sums[e.Category] = total.Add(e.Value)
	}
	return sums, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("STAFF")
	assert.NoError(t, err)
	assert.Equal(t, CategoryStaff, c)

	c, err = ParseCategory(" other ")
	assert.NoError(t, err)
	assert.Equal(t, CategoryOther, c)

	_, err = ParseCategory("misc")
	assert.Error(t, err)
}

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()
	repo := newMemExpenseRepo()
	svc := NewService(repo)

	e := &Expense{
		Category:    CategoryStaff,
		Description: "packing help",
		Value:       types.MustMoney("120.00"),
		Date:        time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
	}
	require.NoError(t, svc.Create(ctx, tenant.Red, e))

	assert.False(t, id.IsNil(e.ID))
	assert.Equal(t, tenant.Red, e.TenantID)
	assert.Equal(t, date(2026, 3, 5), e.Date)
}

func TestCreateExpenseValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemExpenseRepo())

	err := svc.Create(ctx, tenant.Red, &Expense{Category: "misc", Description: "x", Value: types.Zero()})
	assert.Error(t, err)

	err = svc.Create(ctx, tenant.Red, &Expense{Category: CategoryOther, Description: "", Value: types.Zero()})
	assert.Error(t, err)

	err = svc.Create(ctx, tenant.Red, &Expense{Category: CategoryOther, Description: "x", Value: types.MustMoney("-5.00")})
	assert.Error(t, err)
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	repo := newMemExpenseRepo()
	svc := NewService(repo)

	seed := []*Expense{
		{Category: CategoryStaff, Description: "help", Value: types.MustMoney("100.00"), Date: date(2026, 3, 5)},
		{Category: CategoryStaff, Description: "more help", Value: types.MustMoney("50.00"), Date: date(2026, 3, 10)},
		{Category: CategoryOther, Description: "tape", Value: types.MustMoney("12.30"), Date: date(2026, 3, 7)},
		// Out of range, must not count.
		{Category: CategoryOther, Description: "old", Value: types.MustMoney("99.00"), Date: date(2026, 1, 2)},
	}
	for _, e := range seed {
		require.NoError(t, svc.Create(ctx, tenant.Red, e))
	}

	staff, other, err := svc.Totals(ctx, tenant.Red, date(2026, 3, 1), date(2026, 3, 31))
	require.NoError(t, err)
	assert.True(t, staff.Equal(types.MustMoney("150.00")), "staff = %s", staff)
	assert.True(t, other.Equal(types.MustMoney("12.30")), "other = %s", other)
}

func TestTotalsEmpty(t *testing.T) {
	svc := NewService(newMemExpenseRepo())

	staff, other, err := svc.Totals(context.Background(), tenant.Red, date(2026, 3, 1), date(2026, 3, 31))
	require.NoError(t, err)
	assert.True(t, staff.IsZero())
	assert.True(t, other.IsZero())
}
