package expense

import (
	"context"
	"time"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
)

// Repository defines expense persistence.
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, t tenant.ID, expenseID id.ID) error
	GetByID(ctx context.Context, t tenant.ID, expenseID id.ID) (*Expense, error)

	// List returns the tenant's expenses matching the filter, ordered by
	// expense date descending.
	List(ctx context.Context, t tenant.ID, f Filter) ([]Expense, error)

	// SumByCategory totals the tenant's expenses per category over [from, to].
	SumByCategory(ctx context.Context, t tenant.ID, from, to time.Time) (map[Category]types.Money, error)
}
