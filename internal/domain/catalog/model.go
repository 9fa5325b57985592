// Package catalog provides the item catalog shared by both business units.
// Items are referenced, never owned, by ledger movements and sale lines:
// deactivating an item leaves its history intact.
package catalog

import (
	"context"
	"time"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/types"
)

// Item is a catalog entry.
type Item struct {
	ID          id.ID       `db:"id" json:"id"`
	Code        string      `db:"code" json:"code"`
	Description string      `db:"description" json:"description"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	Active      bool        `db:"active" json:"active"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewItem creates an active item.
func NewItem(code, description string, unitPrice types.Money) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:          id.New(),
		Code:        code,
		Description: description,
		UnitPrice:   unitPrice,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks invariants before persisting.
func (i *Item) Validate(ctx context.Context) error {
	if i.Code == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if i.Description == "" {
		return apperror.NewValidation("description is required").WithDetail("field", "description")
	}
	if i.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").WithDetail("field", "unitPrice")
	}
	return nil
}

// ListFilter narrows item listings.
type ListFilter struct {
	Search     string
	OnlyActive bool
	Limit      int
	Offset     int
}
