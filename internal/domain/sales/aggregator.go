package sales

import (
	"context"
	"fmt"
	"time"

	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/ledger"
)

// RevenueAggregate holds the per-category totals over a date range. It is
// derived, recomputed on every request, and never persisted.
type RevenueAggregate struct {
	TenantID tenant.ID `json:"tenantId"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	// TotalSaleValue sums each sale's value contribution by type:
	// NORMAL contributes subtotal plus freight plus commission, FREE
	// contributes informed value plus freight, EXTRA contributes nothing.
	TotalSaleValue types.Money `json:"totalSaleValue"`

	// TotalItemCost sums the informed values of NORMAL sales, the cost of
	// goods sold.
	TotalItemCost types.Money `json:"totalItemCost"`

	TotalExtras     types.Money `json:"totalExtras"`
	TotalFreight    types.Money `json:"totalFreight"`
	TotalPostage    types.Money `json:"totalPostage"`
	TotalCommission types.Money `json:"totalCommission"`

	// TotalProfit sums the per-type profit contributions. It is reported for
	// reference; the distribution engine derives profit from the other totals.
	TotalProfit types.Money `json:"totalProfit"`

	ValueByType map[SaleType]types.Money `json:"valueByType"`
	CountByType map[SaleType]int         `json:"countByType"`
}

// NewRevenueAggregate returns an empty aggregate for the range.
func NewRevenueAggregate(t tenant.ID, from, to time.Time) *RevenueAggregate {
	return &RevenueAggregate{
		TenantID:        t,
		FromDate:        from,
		ToDate:          to,
		TotalSaleValue:  types.Zero(),
		TotalItemCost:   types.Zero(),
		TotalExtras:     types.Zero(),
		TotalFreight:    types.Zero(),
		TotalPostage:    types.Zero(),
		TotalCommission: types.Zero(),
		TotalProfit:     types.Zero(),
		ValueByType: map[SaleType]types.Money{
			SaleExtra:  types.Zero(),
			SaleNormal: types.Zero(),
			SaleFree:   types.Zero(),
		},
		CountByType: map[SaleType]int{
			SaleExtra:  0,
			SaleNormal: 0,
			SaleFree:   0,
		},
	}
}

// Accumulate folds one sale into the aggregate.
func (a *RevenueAggregate) Accumulate(sale *SaleRecord) {
	a.CountByType[sale.Type]++
	a.TotalFreight = a.TotalFreight.Add(sale.FreightValue)
	a.TotalPostage = a.TotalPostage.Add(sale.PostageValue)
	a.TotalCommission = a.TotalCommission.Add(sale.CommissionValue)

	value := types.Zero()
	profit := types.Zero()
	switch sale.Type {
	case SaleExtra:
		a.TotalExtras = a.TotalExtras.Add(sale.ExtraValue)
		profit = sale.ExtraValue
	case SaleNormal:
		subtotal := sale.Subtotal()
		value = subtotal.Add(sale.FreightValue).Add(sale.CommissionValue)
		profit = subtotal.Sub(sale.InformedValue)
		a.TotalItemCost = a.TotalItemCost.Add(sale.InformedValue)
	case SaleFree:
		value = sale.InformedValue.Add(sale.FreightValue)
		profit = sale.InformedValue
	}

	a.TotalSaleValue = a.TotalSaleValue.Add(value)
	a.ValueByType[sale.Type] = a.ValueByType[sale.Type].Add(value)
	a.TotalProfit = a.TotalProfit.Add(profit)
}

// Aggregator computes revenue aggregates from stored sales.
type Aggregator struct {
	repo Repository
}

// NewAggregator creates the revenue aggregator.
func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Aggregate computes the tenant's revenue aggregate over the date range.
// Missing dates default to the last month up to today.
func (a *Aggregator) Aggregate(ctx context.Context, t tenant.ID, from, to *time.Time) (*RevenueAggregate, error) {
	defFrom, defTo := ledger.DefaultRange(time.Now())
	fromDate, toDate := defFrom, defTo
	if from != nil {
		fromDate = ledger.Day(*from)
	}
	if to != nil {
		toDate = ledger.Day(*to)
	}

	records, err := a.repo.ListRange(ctx, t, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	agg := NewRevenueAggregate(t, fromDate, toDate)
	for i := range records {
		agg.Accumulate(&records[i])
	}
	return agg, nil
}
