package profit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/sales"
)

// fixedRevenue returns a canned aggregate and records the requested range.
type fixedRevenue struct {
	agg *sales.RevenueAggregate
}

func (f fixedRevenue) Aggregate(_ context.Context, t tenant.ID, from, to *time.Time) (*sales.RevenueAggregate, error) {
	return f.agg, nil
}

// fixedExpenses returns canned totals and records the range it was asked for.
type fixedExpenses struct {
	staff, other types.Money
	gotFrom      time.Time
	gotTo        time.Time
}

func (f *fixedExpenses) Totals(_ context.Context, t tenant.ID, from, to time.Time) (types.Money, types.Money, error) {
	f.gotFrom, f.gotTo = from, to
	return f.staff, f.other, nil
}

func TestDistributeProfit(t *testing.T) {
	agg := aggregate("900.00", "100.00", "150.00", "100.00")
	expenses := &fixedExpenses{staff: types.MustMoney("100.00"), other: types.MustMoney("50.00")}
	svc := NewService(fixedRevenue{agg: agg}, expenses)

	result, err := svc.DistributeProfit(context.Background(), tenant.Red, nil, nil)
	require.NoError(t, err)

	// 900 + 100 + 150 - 50 - 100 = 1000
	assert.True(t, result.Profit.Equal(types.MustMoney("1000.00")), "profit = %s", result.Profit)
	require.Len(t, result.Shares, 3)
	assertShare(t, result.Shares[0], "partner_1", "500.00")
	assertShare(t, result.Shares[1], "partner_2", "200.00")
	assertShare(t, result.Shares[2], "partner_3", "200.00")
}

func TestDistributeProfitUsesAggregateRange(t *testing.T) {
	agg := aggregate("0", "0", "0", "0")
	expenses := &fixedExpenses{staff: types.Zero(), other: types.Zero()}
	svc := NewService(fixedRevenue{agg: agg}, expenses)

	_, err := svc.DistributeProfit(context.Background(), tenant.Red, nil, nil)
	require.NoError(t, err)

	// The expense window is whatever range the revenue aggregation resolved.
	assert.Equal(t, agg.FromDate, expenses.gotFrom)
	assert.Equal(t, agg.ToDate, expenses.gotTo)
}
