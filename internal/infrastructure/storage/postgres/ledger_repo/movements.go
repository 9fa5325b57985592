// Package ledger_repo provides the PostgreSQL implementation of the movement
// ledger. Both tenants share one database; every query filters on tenant_id.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/domain/ledger"
	"tally/internal/infrastructure/storage/postgres"
)

var movementCols = []string{
	"id", "item_id", "tenant_id", "kind", "quantity",
	"movement_date", "registered_at",
	"previous_quantity", "current_quantity", "note",
}

// MovementRepo implements ledger.Repository.
type MovementRepo struct {
	txm *postgres.TxManager
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{txm: txm}
}

func (r *MovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert appends a movement record. There is no update path: the ledger is
// append-only.
func (r *MovementRepo) Insert(ctx context.Context, rec *ledger.MovementRecord) error {
	sql, args, err := r.builder().
		Insert("movements").
		Columns(movementCols...).
		Values(
			rec.ID, rec.ItemID, rec.TenantID, rec.Kind, rec.Quantity,
			rec.MovementDate, rec.RegisteredAt,
			rec.PreviousQuantity, rec.CurrentQuantity, rec.Note,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID returns a movement within the tenant's partition.
func (r *MovementRepo) GetByID(ctx context.Context, t tenant.ID, recID id.ID) (*ledger.MovementRecord, error) {
	sql, args, err := r.builder().
		Select(movementCols...).
		From("movements").
		Where(squirrel.Eq{"id": recID, "tenant_id": t}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rec ledger.MovementRecord
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &rec, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("movement", recID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query movement: %w", err)
	}
	return &rec, nil
}

// ListForReplay returns every record for (item, tenant) in replay order.
func (r *MovementRepo) ListForReplay(ctx context.Context, t tenant.ID, itemID id.ID) ([]ledger.MovementRecord, error) {
	sql, args, err := r.builder().
		Select(movementCols...).
		From("movements").
		Where(squirrel.Eq{"item_id": itemID, "tenant_id": t}).
		OrderBy("movement_date ASC", "registered_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var records []ledger.MovementRecord
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	return records, nil
}

// List returns the tenant's movements matching the filter, most recent first.
func (r *MovementRepo) List(ctx context.Context, t tenant.ID, f ledger.Filter) ([]ledger.MovementRecord, error) {
	q := r.builder().
		Select(movementCols...).
		From("movements").
		Where(squirrel.Eq{"tenant_id": t}).
		OrderBy("movement_date DESC", "registered_at DESC")
	q = applyFilter(q, f)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var records []ledger.MovementRecord
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	return records, nil
}

// ListRecent returns the tenant's most recently registered movements.
func (r *MovementRepo) ListRecent(ctx context.Context, t tenant.ID, limit int) ([]ledger.MovementRecord, error) {
	sql, args, err := r.builder().
		Select(movementCols...).
		From("movements").
		Where(squirrel.Eq{"tenant_id": t}).
		OrderBy("registered_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var records []ledger.MovementRecord
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	return records, nil
}

// ListAllTenants returns movements across every tenant partition, most
// recently registered first. The service layer enforces the privilege check.
func (r *MovementRepo) ListAllTenants(ctx context.Context, f ledger.Filter) ([]ledger.MovementRecord, error) {
	q := r.builder().
		Select(movementCols...).
		From("movements").
		OrderBy("registered_at DESC")
	q = applyFilter(q, f)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var records []ledger.MovementRecord
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	return records, nil
}

// CountByItem counts movements referencing an item across all tenants.
func (r *MovementRepo) CountByItem(ctx context.Context, itemID id.ID) (int64, error) {
	sql, args, err := r.builder().
		Select("COUNT(*)").
		From("movements").
		Where(squirrel.Eq{"item_id": itemID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return count, nil
}

// AcquireItemLock serializes writers on one (item, tenant) key using a
// transaction-scoped advisory lock; it is released on commit or rollback.
func (r *MovementRepo) AcquireItemLock(ctx context.Context, t tenant.ID, itemID id.ID) error {
	if r.txm.GetTx(ctx) == nil {
		return fmt.Errorf("item lock requires an open transaction")
	}

	key := fmt.Sprintf("%s/%s", t, itemID)
	_, err := r.txm.GetQuerier(ctx).Exec(ctx,
		"SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key)
	if err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

func applyFilter(q squirrel.SelectBuilder, f ledger.Filter) squirrel.SelectBuilder {
	if f.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *f.ItemID})
	}
	if f.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *f.Kind})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"movement_date": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"movement_date": *f.ToDate})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}
