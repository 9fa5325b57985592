package profit

import (
	"context"
	"time"

	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/sales"
	"tally/pkg/logger"
)

// RevenueSource aggregates sale revenue over a date range.
// Implemented by the sales aggregator.
type RevenueSource interface {
	Aggregate(ctx context.Context, t tenant.ID, from, to *time.Time) (*sales.RevenueAggregate, error)
}

// ExpenseSource totals staff and other expenses over a date range.
// Implemented by the expense service.
type ExpenseSource interface {
	Totals(ctx context.Context, t tenant.ID, from, to time.Time) (staff, other types.Money, err error)
}

// Service wires revenue and expense totals into the distribution.
type Service struct {
	revenue  RevenueSource
	expenses ExpenseSource
}

// NewService creates the profit service.
func NewService(revenue RevenueSource, expenses ExpenseSource) *Service {
	return &Service{revenue: revenue, expenses: expenses}
}

// DistributeProfit aggregates the tenant's revenue and expenses over the date
// range and applies the tenant's split scheme.
func (s *Service) DistributeProfit(ctx context.Context, t tenant.ID, from, to *time.Time) (*PartnerShareResult, error) {
	agg, err := s.revenue.Aggregate(ctx, t, from, to)
	if err != nil {
		return nil, err
	}

	staff, other, err := s.expenses.Totals(ctx, t, agg.FromDate, agg.ToDate)
	if err != nil {
		return nil, err
	}

	result := Distribute(agg, staff, other, t)
	logger.Info(ctx, "profit distributed",
		"tenant", t,
		"scheme", result.Scheme,
		"profit", result.Profit,
		"partners", len(result.Shares),
	)
	return result, nil
}
