// Package sales_repo provides the PostgreSQL implementation of sale storage.
// A sale and its lines span two tables and are loaded together.
package sales_repo

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
	"tally/internal/domain/sales"
	"tally/internal/infrastructure/storage/postgres"
)

var saleCols = []string{
	"id", "tenant_id", "sale_type",
	"informed_value", "freight_value", "extra_value",
	"commission_value", "postage_value",
	"sale_date", "note", "created_at",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	txm *postgres.TxManager
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{txm: txm}
}

func (r *SaleRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a sale and its lines.
func (r *SaleRepo) Create(ctx context.Context, sale *sales.SaleRecord) error {
	sql, args, err := r.builder().
		Insert("sales").
		Columns(saleCols...).
		Values(
			sale.ID, sale.TenantID, sale.Type,
			sale.InformedValue, sale.FreightValue, sale.ExtraValue,
			sale.CommissionValue, sale.PostageValue,
			sale.Date, sale.Note, sale.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	q := r.txm.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for i, line := range sale.Lines {
		lineSQL, lineArgs, err := r.builder().
			Insert("sale_lines").
			Columns("sale_id", "line_no", "item_id", "quantity", "unit_price").
			Values(sale.ID, i+1, line.ItemID, line.Quantity, line.UnitPrice).
			ToSql()
		if err != nil {
			return fmt.Errorf("build line insert: %w", err)
		}
		if _, err := q.Exec(ctx, lineSQL, lineArgs...); err != nil {
			return fmt.Errorf("insert sale line %d: %w", i+1, err)
		}
	}
	return nil
}

// Delete removes a sale and its lines within the tenant's partition.
func (r *SaleRepo) Delete(ctx context.Context, t tenant.ID, saleID id.ID) error {
	q := r.txm.GetQuerier(ctx)

	lineSQL, lineArgs, err := r.builder().
		Delete("sale_lines").
		Where(squirrel.Eq{"sale_id": saleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build line delete: %w", err)
	}
	if _, err := q.Exec(ctx, lineSQL, lineArgs...); err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}

	sql, args, err := r.builder().
		Delete("sales").
		Where(squirrel.Eq{"id": saleID, "tenant_id": t}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}

// GetByID returns one sale with its lines.
func (r *SaleRepo) GetByID(ctx context.Context, t tenant.ID, saleID id.ID) (*sales.SaleRecord, error) {
	sql, args, err := r.builder().
		Select(saleCols...).
		From("sales").
		Where(squirrel.Eq{"id": saleID, "tenant_id": t}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var sale sales.SaleRecord
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &sale, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query sale: %w", err)
	}

	if err := r.loadLines(ctx, []*sales.SaleRecord{&sale}); err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns the tenant's sales matching the filter, most recent first.
func (r *SaleRepo) List(ctx context.Context, t tenant.ID, f sales.Filter) ([]sales.SaleRecord, error) {
	q := r.builder().
		Select(saleCols...).
		From("sales").
		Where(squirrel.Eq{"tenant_id": t}).
		OrderBy("sale_date DESC", "created_at DESC")

	if f.Type != nil {
		q = q.Where(squirrel.Eq{"sale_type": *f.Type})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"sale_date": *f.ToDate})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	return r.selectSales(ctx, q)
}

// ListRange returns every sale for the tenant in [from, to], for aggregation.
func (r *SaleRepo) ListRange(ctx context.Context, t tenant.ID, from, to time.Time) ([]sales.SaleRecord, error) {
	q := r.builder().
		Select(saleCols...).
		From("sales").
		Where(squirrel.Eq{"tenant_id": t}).
		Where(squirrel.GtOrEq{"sale_date": from}).
		Where(squirrel.LtOrEq{"sale_date": to}).
		OrderBy("sale_date ASC", "created_at ASC")

	return r.selectSales(ctx, q)
}

func (r *SaleRepo) selectSales(ctx context.Context, q squirrel.SelectBuilder) ([]sales.SaleRecord, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var records []sales.SaleRecord
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}

	ptrs := make([]*sales.SaleRecord, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}
	if err := r.loadLines(ctx, ptrs); err != nil {
		return nil, err
	}
	return records, nil
}

type saleLineRow struct {
	SaleID    id.ID `db:"sale_id"`
	sales.SaleLine
}

// loadLines attaches lines to their sales in one query.
func (r *SaleRepo) loadLines(ctx context.Context, records []*sales.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}

	saleIDs := make([]id.ID, len(records))
	byID := make(map[id.ID]*sales.SaleRecord, len(records))
	for i, s := range records {
		saleIDs[i] = s.ID
		byID[s.ID] = s
	}

	sql, args, err := r.builder().
		Select("sale_id", "item_id", "quantity", "unit_price").
		From("sale_lines").
		Where(squirrel.Eq{"sale_id": saleIDs}).
		OrderBy("sale_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build line select: %w", err)
	}

	var rows []saleLineRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("query sale lines: %w", err)
	}

	for _, row := range rows {
		if s, ok := byID[row.SaleID]; ok {
			s.Lines = append(s.Lines, row.SaleLine)
		}
	}
	return nil
}
