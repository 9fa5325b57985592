// Package expense tracks tenant expenses feeding the profit distribution.
package expense

import (
	"context"
	"strings"
	"time"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
)

// Category splits expenses by how the distribution treats them: staff
// expenses come out of specific partner shares, other expenses reduce the
// profit pool itself.
type Category string

const (
	CategoryStaff Category = "staff"
	CategoryOther Category = "other"
)

// ParseCategory parses an expense category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryStaff, CategoryOther:
		return c, nil
	}
	return "", apperror.NewValidation("unknown expense category").WithDetail("category", s)
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	return c == CategoryStaff || c == CategoryOther
}

// Expense is one recorded expense.
type Expense struct {
	ID          id.ID       `db:"id" json:"id"`
	TenantID    tenant.ID   `db:"tenant_id" json:"tenantId"`
	Category    Category    `db:"category" json:"category"`
	Description string      `db:"description" json:"description"`
	Value       types.Money `db:"value" json:"value"`
	Date        time.Time   `db:"expense_date" json:"date"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Validate checks invariants before persisting.
func (e *Expense) Validate(ctx context.Context) error {
	if !e.Category.IsValid() {
		return apperror.NewValidation("unknown expense category").WithDetail("category", string(e.Category))
	}
	if e.Description == "" {
		return apperror.NewValidation("description is required").WithDetail("field", "description")
	}
	if e.Value.IsNegative() {
		return apperror.NewValidation("value cannot be negative").WithDetail("field", "value")
	}
	return nil
}

// Filter narrows expense listings.
type Filter struct {
	Category *Category
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
