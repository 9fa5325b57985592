// Package sales provides sale records and the revenue aggregation the profit
// distribution consumes.
package sales

import (
	"context"
	"strings"
	"time"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
)

// SaleType classifies how a sale contributes to revenue and profit.
type SaleType string

const (
	// SaleExtra is income outside the catalog: no item value, the extra
	// amount is pure profit.
	SaleExtra SaleType = "EXTRA"

	// SaleNormal is a regular catalog sale priced by its lines.
	SaleNormal SaleType = "NORMAL"

	// SaleFree is a sale at an informed price, detached from catalog pricing.
	SaleFree SaleType = "FREE"
)

// ParseSaleType parses a sale type, case-insensitively.
func ParseSaleType(s string) (SaleType, error) {
	t := SaleType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case SaleExtra, SaleNormal, SaleFree:
		return t, nil
	}
	return "", apperror.NewValidation("unknown sale type").WithDetail("saleType", s)
}

// IsValid reports whether t is a known sale type.
func (t SaleType) IsValid() bool {
	switch t {
	case SaleExtra, SaleNormal, SaleFree:
		return true
	}
	return false
}

// SaleLine is one sold item with the price captured at sale time.
// Lines are never re-priced when the catalog changes.
type SaleLine struct {
	ItemID    id.ID       `db:"item_id" json:"itemId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// Subtotal is quantity times the captured unit price.
func (l SaleLine) Subtotal() types.Money {
	return l.UnitPrice.Mul(types.MoneyFromInt(l.Quantity))
}

// SaleRecord is one sale. Lines may be empty for EXTRA sales.
type SaleRecord struct {
	ID       id.ID     `db:"id" json:"id"`
	TenantID tenant.ID `db:"tenant_id" json:"tenantId"`
	Type     SaleType  `db:"sale_type" json:"saleType"`

	Lines []SaleLine `db:"-" json:"lines"`

	InformedValue   types.Money `db:"informed_value" json:"informedValue"`
	FreightValue    types.Money `db:"freight_value" json:"freightValue"`
	ExtraValue      types.Money `db:"extra_value" json:"extraValue"`
	CommissionValue types.Money `db:"commission_value" json:"commissionValue"`
	PostageValue    types.Money `db:"postage_value" json:"postageValue"`

	Date      time.Time `db:"sale_date" json:"date"`
	Note      string    `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Subtotal sums the lines' subtotals.
func (s *SaleRecord) Subtotal() types.Money {
	total := types.Zero()
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Validate checks invariants before persisting.
func (s *SaleRecord) Validate(ctx context.Context) error {
	if !s.Type.IsValid() {
		return apperror.NewValidation("unknown sale type").WithDetail("saleType", string(s.Type))
	}
	if s.Type == SaleNormal && len(s.Lines) == 0 {
		return apperror.NewValidation("a NORMAL sale requires at least one line")
	}
	for i, l := range s.Lines {
		if l.Quantity <= 0 {
			return apperror.NewInvalidQuantity(l.Quantity).WithDetail("line", i)
		}
		if l.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price cannot be negative").WithDetail("line", i)
		}
	}
	for field, v := range map[string]types.Money{
		"informedValue":   s.InformedValue,
		"freightValue":    s.FreightValue,
		"extraValue":      s.ExtraValue,
		"commissionValue": s.CommissionValue,
		"postageValue":    s.PostageValue,
	} {
		if v.IsNegative() {
			return apperror.NewValidation("monetary value cannot be negative").WithDetail("field", field)
		}
	}
	return nil
}

// Filter narrows sale listings.
type Filter struct {
	Type     *SaleType
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
