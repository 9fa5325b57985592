// Package profit apportions aggregated revenue among business partners.
package profit

import (
	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/sales"
)

// Scheme names a partner split formula. Each tenant has a fixed scheme.
type Scheme string

const (
	// SchemeThreeWay splits among three partners: the first takes half the
	// profit; staff expenses come out of the other half, which is then split
	// evenly between the remaining two.
	SchemeThreeWay Scheme = "three_way"

	// SchemeTwoWay splits between two partners: the first takes half the
	// profit; the second takes the other half minus staff expenses.
	SchemeTwoWay Scheme = "two_way"
)

// SchemeFor returns the tenant's split scheme.
func SchemeFor(t tenant.ID) Scheme {
	if t == tenant.White {
		return SchemeTwoWay
	}
	return SchemeThreeWay
}

// PartnerShare is one partner's slice of the distribution.
type PartnerShare struct {
	Partner string      `json:"partner"`
	Amount  types.Money `json:"amount"`
}

// PartnerShareResult is the full distribution breakdown, echoing the inputs
// it was computed from.
type PartnerShareResult struct {
	TenantID tenant.ID `json:"tenantId"`
	Scheme   Scheme    `json:"scheme"`

	TotalSaleValue types.Money `json:"totalSaleValue"`
	TotalExtras    types.Money `json:"totalExtras"`
	TotalFreight   types.Money `json:"totalFreight"`
	TotalItemCost  types.Money `json:"totalItemCost"`
	StaffExpenses  types.Money `json:"staffExpenses"`
	OtherExpenses  types.Money `json:"otherExpenses"`

	Profit types.Money    `json:"profit"`
	Shares []PartnerShare `json:"shares"`
}

// Distribute applies the tenant's split scheme to the aggregated revenue and
// expense totals. It is a pure function of its inputs.
//
// Each halving rounds half-up to two decimal places before feeding the next
// step; the residual cent is absorbed, never redistributed.
func Distribute(revenue *sales.RevenueAggregate, staffExpenses, otherExpenses types.Money, t tenant.ID) *PartnerShareResult {
	profit := revenue.TotalSaleValue.
		Add(revenue.TotalExtras).
		Add(revenue.TotalFreight).
		Sub(otherExpenses).
		Sub(revenue.TotalItemCost)
	profit = types.HalfUp(profit)

	result := &PartnerShareResult{
		TenantID:       t,
		Scheme:         SchemeFor(t),
		TotalSaleValue: revenue.TotalSaleValue,
		TotalExtras:    revenue.TotalExtras,
		TotalFreight:   revenue.TotalFreight,
		TotalItemCost:  revenue.TotalItemCost,
		StaffExpenses:  staffExpenses,
		OtherExpenses:  otherExpenses,
		Profit:         profit,
	}

	half := types.Halve(profit)
	switch result.Scheme {
	case SchemeTwoWay:
		result.Shares = []PartnerShare{
			{Partner: "partner_1", Amount: half},
			{Partner: "partner_2", Amount: half.Sub(staffExpenses)},
		}
	default:
		remainder := half.Sub(staffExpenses)
		split := types.Halve(remainder)
		result.Shares = []PartnerShare{
			{Partner: "partner_1", Amount: half},
			{Partner: "partner_2", Amount: split},
			{Partner: "partner_3", Amount: split},
		}
	}
	return result
}
