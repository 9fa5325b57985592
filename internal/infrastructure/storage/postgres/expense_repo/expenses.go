// Package expense_repo provides the PostgreSQL implementation of expense
// storage.
package expense_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/expense"
	"tally/internal/infrastructure/storage/postgres"
)

var expenseCols = []string{
	"id", "tenant_id", "category", "description", "value",
	"expense_date", "created_at",
}

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	txm *postgres.TxManager
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txm *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{txm: txm}
}

func (r *ExpenseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts an expense.
func (r *ExpenseRepo) Create(ctx context.Context, e *expense.Expense) error {
	sql, args, err := r.builder().
		Insert("expenses").
		Columns(expenseCols...).
		Values(
			e.ID, e.TenantID, e.Category, e.Description, e.Value,
			e.Date, e.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// Delete removes an expense within the tenant's partition.
func (r *ExpenseRepo) Delete(ctx context.Context, t tenant.ID, expenseID id.ID) error {
	sql, args, err := r.builder().
		Delete("expenses").
		Where(squirrel.Eq{"id": expenseID, "tenant_id": t}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("expense", expenseID.String())
	}
	return nil
}

// GetByID returns one expense within the tenant's partition.
func (r *ExpenseRepo) GetByID(ctx context.Context, t tenant.ID, expenseID id.ID) (*expense.Expense, error) {
	sql, args, err := r.builder().
		Select(expenseCols...).
		From("expenses").
		Where(squirrel.Eq{"id": expenseID, "tenant_id": t}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var e expense.Expense
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("expense", expenseID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query expense: %w", err)
	}
	return &e, nil
}

// List returns the tenant's expenses matching the filter, most recent first.
func (r *ExpenseRepo) List(ctx context.Context, t tenant.ID, f expense.Filter) ([]expense.Expense, error) {
	q := r.builder().
		Select(expenseCols...).
		From("expenses").
		Where(squirrel.Eq{"tenant_id": t}).
		OrderBy("expense_date DESC", "created_at DESC")

	if f.Category != nil {
		q = q.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"expense_date": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"expense_date": *f.ToDate})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var expenses []expense.Expense
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &expenses, sql, args...); err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	return expenses, nil
}

// SumByCategory totals the tenant's expenses per category over [from, to].
func (r *ExpenseRepo) SumByCategory(ctx context.Context, t tenant.ID, from, to time.Time) (map[expense.Category]types.Money, error) {
	sql, args, err := r.builder().
		Select("category", "COALESCE(SUM(value), 0) AS total").
		From("expenses").
		Where(squirrel.Eq{"tenant_id": t}).
		Where(squirrel.GtOrEq{"expense_date": from}).
		Where(squirrel.LtOrEq{"expense_date": to}).
		GroupBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sum: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query sums: %w", err)
	}
	defer rows.Close()

	sums := make(map[expense.Category]types.Money)
	for rows.Next() {
		var category expense.Category
		var total types.Money
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		sums[category] = total
	}
	return sums, rows.Err()
}
