package expense

import (
	"context"
	"fmt"
	"time"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/ledger"
	"tally/pkg/logger"
)

// Service provides expense operations.
type Service struct {
	repo Repository
}

// NewService creates the expense service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists an expense.
func (s *Service) Create(ctx context.Context, t tenant.ID, e *Expense) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	if id.IsNil(e.ID) {
		e.ID = id.New()
	}
	e.TenantID = t
	if e.Date.IsZero() {
		e.Date = now
	}
	e.Date = ledger.Day(e.Date)
	e.CreatedAt = now

	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	logger.Info(ctx, "expense recorded",
		"expense_id", e.ID,
		"category", e.Category,
		"value", e.Value,
	)
	return nil
}

// Delete removes an expense within the tenant's partition.
func (s *Service) Delete(ctx context.Context, t tenant.ID, expenseID id.ID) error {
	if _, err := s.repo.GetByID(ctx, t, expenseID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, t, expenseID)
}

// GetByID returns one expense within the tenant's partition.
func (s *Service) GetByID(ctx context.Context, t tenant.ID, expenseID id.ID) (*Expense, error) {
	return s.repo.GetByID(ctx, t, expenseID)
}

// List returns the tenant's expenses matching the filter.
func (s *Service) List(ctx context.Context, t tenant.ID, f Filter) ([]Expense, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	return s.repo.List(ctx, t, f)
}

// Totals returns the tenant's staff and other expense totals over [from, to].
// Categories without expenses total zero.
func (s *Service) Totals(ctx context.Context, t tenant.ID, from, to time.Time) (staff, other types.Money, err error) {
	sums, err := s.repo.SumByCategory(ctx, t, from, to)
	if err != nil {
		return types.Zero(), types.Zero(), fmt.Errorf("sum expenses: %w", err)
	}
	staff, other = types.Zero(), types.Zero()
	if v, ok := sums[CategoryStaff]; ok {
		staff = v
	}
	if v, ok := sums[CategoryOther]; ok {
		other = v
	}
	return staff, other, nil
}
