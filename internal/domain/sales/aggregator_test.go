package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
)

func emptyAggregate() *RevenueAggregate {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	return NewRevenueAggregate(tenant.Red, from, to)
}

func assertMoney(t *testing.T, want string, got types.Money, label string) {
	t.Helper()
	assert.True(t, got.Equal(types.MustMoney(want)), "%s = %s, want %s", label, got, want)
}

func TestAccumulateNormalSale(t *testing.T) {
	agg := emptyAggregate()
	agg.Accumulate(&SaleRecord{
		Type: SaleNormal,
		Lines: []SaleLine{
			{ItemID: id.New(), Quantity: 2, UnitPrice: types.MustMoney("50.00")},
			{ItemID: id.New(), Quantity: 1, UnitPrice: types.MustMoney("30.00")},
		},
		InformedValue:   types.MustMoney("80.00"),
		FreightValue:    types.MustMoney("10.00"),
		CommissionValue: types.MustMoney("5.00"),
		PostageValue:    types.MustMoney("3.00"),
	})

	// Value: subtotal 130 + freight 10 + commission 5.
	assertMoney(t, "145.00", agg.TotalSaleValue, "TotalSaleValue")
	// Cost of goods sold is the informed value.
	assertMoney(t, "80.00", agg.TotalItemCost, "TotalItemCost")
	// Profit: subtotal minus informed value.
	assertMoney(t, "50.00", agg.TotalProfit, "TotalProfit")
	assertMoney(t, "10.00", agg.TotalFreight, "TotalFreight")
	assertMoney(t, "5.00", agg.TotalCommission, "TotalCommission")
	assertMoney(t, "3.00", agg.TotalPostage, "TotalPostage")
	assertMoney(t, "0", agg.TotalExtras, "TotalExtras")
	assert.Equal(t, 1, agg.CountByType[SaleNormal])
}

func TestAccumulateExtraSale(t *testing.T) {
	agg := emptyAggregate()
	agg.Accumulate(&SaleRecord{
		Type:         SaleExtra,
		ExtraValue:   types.MustMoney("25.00"),
		FreightValue: types.MustMoney("4.00"),
	})

	// EXTRA contributes no sale value; the extra amount is pure profit.
	assertMoney(t, "0", agg.TotalSaleValue, "TotalSaleValue")
	assertMoney(t, "25.00", agg.TotalExtras, "TotalExtras")
	assertMoney(t, "25.00", agg.TotalProfit, "TotalProfit")
	// Freight is accumulated regardless of type.
	assertMoney(t, "4.00", agg.TotalFreight, "TotalFreight")
	assert.Equal(t, 1, agg.CountByType[SaleExtra])
}

func TestAccumulateFreeSale(t *testing.T) {
	agg := emptyAggregate()
	agg.Accumulate(&SaleRecord{
		Type:          SaleFree,
		InformedValue: types.MustMoney("60.00"),
		FreightValue:  types.MustMoney("8.00"),
	})

	assertMoney(t, "68.00", agg.TotalSaleValue, "TotalSaleValue")
	assertMoney(t, "60.00", agg.TotalProfit, "TotalProfit")
	// FREE sales carry no item cost.
	assertMoney(t, "0", agg.TotalItemCost, "TotalItemCost")
	assert.Equal(t, 1, agg.CountByType[SaleFree])
}

func TestAccumulateMixed(t *testing.T) {
	agg := emptyAggregate()
	agg.Accumulate(&SaleRecord{
		Type:          SaleNormal,
		Lines:         []SaleLine{{ItemID: id.New(), Quantity: 1, UnitPrice: types.MustMoney("100.00")}},
		InformedValue: types.MustMoney("70.00"),
	})
	agg.Accumulate(&SaleRecord{Type: SaleExtra, ExtraValue: types.MustMoney("20.00")})
	agg.Accumulate(&SaleRecord{Type: SaleFree, InformedValue: types.MustMoney("30.00")})

	assertMoney(t, "130.00", agg.TotalSaleValue, "TotalSaleValue")
	assertMoney(t, "70.00", agg.TotalItemCost, "TotalItemCost")
	assertMoney(t, "20.00", agg.TotalExtras, "TotalExtras")
	assertMoney(t, "80.00", agg.TotalProfit, "TotalProfit")

	assertMoney(t, "100.00", agg.ValueByType[SaleNormal], "ValueByType[NORMAL]")
	assertMoney(t, "0", agg.ValueByType[SaleExtra], "ValueByType[EXTRA]")
	assertMoney(t, "30.00", agg.ValueByType[SaleFree], "ValueByType[FREE]")
	assert.Equal(t, map[SaleType]int{SaleNormal: 1, SaleExtra: 1, SaleFree: 1}, agg.CountByType)
}

func TestParseSaleType(t *testing.T) {
	st, err := ParseSaleType("normal")
	assert.NoError(t, err)
	assert.Equal(t, SaleNormal, st)

	st, err = ParseSaleType(" EXTRA ")
	assert.NoError(t, err)
	assert.Equal(t, SaleExtra, st)

	_, err = ParseSaleType("discount")
	assert.Error(t, err)
}

func TestSaleRecordValidate(t *testing.T) {
	ctx := context.Background()

	sale := &SaleRecord{Type: SaleNormal}
	assert.Error(t, sale.Validate(ctx), "NORMAL requires lines")

	sale = &SaleRecord{
		Type:  SaleNormal,
		Lines: []SaleLine{{ItemID: id.New(), Quantity: 0, UnitPrice: types.MustMoney("1.00")}},
	}
	assert.Error(t, sale.Validate(ctx), "non-positive line quantity")

	sale = &SaleRecord{Type: SaleExtra, ExtraValue: types.MustMoney("-1.00")}
	assert.Error(t, sale.Validate(ctx), "negative monetary value")

	sale = &SaleRecord{
		Type:  SaleNormal,
		Lines: []SaleLine{{ItemID: id.New(), Quantity: 2, UnitPrice: types.MustMoney("9.90")}},
	}
	assert.NoError(t, sale.Validate(ctx))
}

func TestSaleSubtotal(t *testing.T) {
	sale := &SaleRecord{
		Lines: []SaleLine{
			{Quantity: 3, UnitPrice: types.MustMoney("12.50")},
			{Quantity: 2, UnitPrice: types.MustMoney("0.05")},
		},
	}
	assertMoney(t, "37.60", sale.Subtotal(), "Subtotal")
}
