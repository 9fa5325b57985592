package profit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/sales"
)

func aggregate(saleValue, extras, freight, itemCost string) *sales.RevenueAggregate {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	agg := sales.NewRevenueAggregate(tenant.Red, from, to)
	agg.TotalSaleValue = types.MustMoney(saleValue)
	agg.TotalExtras = types.MustMoney(extras)
	agg.TotalFreight = types.MustMoney(freight)
	agg.TotalItemCost = types.MustMoney(itemCost)
	return agg
}

func assertShare(t *testing.T, share PartnerShare, partner, amount string) {
	t.Helper()
	assert.Equal(t, partner, share.Partner)
	assert.True(t, share.Amount.Equal(types.MustMoney(amount)),
		"%s = %s, want %s", partner, share.Amount, amount)
}

func TestSchemeFor(t *testing.T) {
	assert.Equal(t, SchemeThreeWay, SchemeFor(tenant.Red))
	assert.Equal(t, SchemeTwoWay, SchemeFor(tenant.White))
}

func TestDistributeProfitFormula(t *testing.T) {
	// 900 + 100 + 150 - 50 - 100 = 1000
	agg := aggregate("900.00", "100.00", "150.00", "100.00")
	result := Distribute(agg, types.Zero(), types.MustMoney("50.00"), tenant.Red)

	assert.True(t, result.Profit.Equal(types.MustMoney("1000.00")), "profit = %s", result.Profit)
	// Postage and commission never enter the profit formula; they are already
	// inside TotalSaleValue where the sale type includes them.
}

func TestDistributeThreeWayNoStaff(t *testing.T) {
	agg := aggregate("1000.00", "0", "0", "0")
	result := Distribute(agg, types.Zero(), types.Zero(), tenant.Red)

	assert.Equal(t, SchemeThreeWay, result.Scheme)
	require.Len(t, result.Shares, 3)
	assertShare(t, result.Shares[0], "partner_1", "500.00")
	assertShare(t, result.Shares[1], "partner_2", "250.00")
	assertShare(t, result.Shares[2], "partner_3", "250.00")
}

func TestDistributeThreeWayStaffFromSecondHalf(t *testing.T) {
	agg := aggregate("1000.00", "0", "0", "0")
	result := Distribute(agg, types.MustMoney("100.00"), types.Zero(), tenant.Red)

	require.Len(t, result.Shares, 3)
	// Staff comes out of the second half only; partner 1 is untouched.
	assertShare(t, result.Shares[0], "partner_1", "500.00")
	assertShare(t, result.Shares[1], "partner_2", "200.00")
	assertShare(t, result.Shares[2], "partner_3", "200.00")
}

func TestDistributeTwoWay(t *testing.T) {
	agg := aggregate("1000.00", "0", "0", "0")
	result := Distribute(agg, types.MustMoney("100.00"), types.Zero(), tenant.White)

	assert.Equal(t, SchemeTwoWay, result.Scheme)
	require.Len(t, result.Shares, 2)
	assertShare(t, result.Shares[0], "partner_1", "500.00")
	assertShare(t, result.Shares[1], "partner_2", "400.00")
}

func TestDistributeRoundsEachStep(t *testing.T) {
	// Profit 999.99: half is 499.995, rounded half-up to 500.00 before any
	// further arithmetic. The residual cent is absorbed, not redistributed.
	agg := aggregate("999.99", "0", "0", "0")
	result := Distribute(agg, types.Zero(), types.Zero(), tenant.Red)

	require.Len(t, result.Shares, 3)
	assertShare(t, result.Shares[0], "partner_1", "500.00")
	assertShare(t, result.Shares[1], "partner_2", "250.00")
	assertShare(t, result.Shares[2], "partner_3", "250.00")
}

func TestDistributeOddRemainder(t *testing.T) {
	// Half of 100.50 is 50.25; remainder after staff 0.24 is 50.01, whose
	// half 25.005 rounds to 25.01 for both remaining partners.
	agg := aggregate("100.50", "0", "0", "0")
	result := Distribute(agg, types.MustMoney("0.24"), types.Zero(), tenant.Red)

	require.Len(t, result.Shares, 3)
	assertShare(t, result.Shares[0], "partner_1", "50.25")
	assertShare(t, result.Shares[1], "partner_2", "25.01")
	assertShare(t, result.Shares[2], "partner_3", "25.01")
}

func TestDistributeNegativeProfit(t *testing.T) {
	// A loss flows through the same formula; shares go negative.
	agg := aggregate("100.00", "0", "0", "300.00")
	result := Distribute(agg, types.Zero(), types.Zero(), tenant.White)

	assert.True(t, result.Profit.Equal(types.MustMoney("-200.00")), "profit = %s", result.Profit)
	require.Len(t, result.Shares, 2)
	assertShare(t, result.Shares[0], "partner_1", "-100.00")
	assertShare(t, result.Shares[1], "partner_2", "-100.00")
}

func TestDistributeEchoesInputs(t *testing.T) {
	agg := aggregate("900.00", "100.00", "150.00", "100.00")
	staff := types.MustMoney("80.00")
	other := types.MustMoney("50.00")
	result := Distribute(agg, staff, other, tenant.Red)

	assert.True(t, result.TotalSaleValue.Equal(agg.TotalSaleValue))
	assert.True(t, result.TotalExtras.Equal(agg.TotalExtras))
	assert.True(t, result.TotalFreight.Equal(agg.TotalFreight))
	assert.True(t, result.TotalItemCost.Equal(agg.TotalItemCost))
	assert.True(t, result.StaffExpenses.Equal(staff))
	assert.True(t, result.OtherExpenses.Equal(other))
	assert.Equal(t, tenant.Red, result.TenantID)
}
