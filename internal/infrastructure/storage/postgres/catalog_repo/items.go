// Package catalog_repo provides the PostgreSQL implementation of the item
// catalog. Items are shared by both tenants; there is no tenant column.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/domain/catalog"
	"tally/internal/infrastructure/storage/postgres"
)

var itemCols = []string{
	"id", "code", "description", "unit_price", "active",
	"created_at", "updated_at",
}

// ItemRepo implements catalog.Repository.
type ItemRepo struct {
	txm *postgres.TxManager
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{txm: txm}
}

func (r *ItemRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, item *catalog.Item) error {
	sql, args, err := r.builder().
		Insert("items").
		Columns(itemCols...).
		Values(
			item.ID, item.Code, item.Description, item.UnitPrice, item.Active,
			item.CreatedAt, item.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update modifies an existing item.
func (r *ItemRepo) Update(ctx context.Context, item *catalog.Item) error {
	sql, args, err := r.builder().
		Update("items").
		Set("description", item.Description).
		Set("unit_price", item.UnitPrice).
		Set("active", item.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", item.ID.String())
	}
	return nil
}

// Delete removes an item. The service layer refuses deletion while movement
// history references the item.
func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := r.builder().
		Delete("items").
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

// GetByID returns one item.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*catalog.Item, error) {
	sql, args, err := r.builder().
		Select(itemCols...).
		From("items").
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var item catalog.Item
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}

// GetByCode returns one item by its unique code.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*catalog.Item, error) {
	sql, args, err := r.builder().
		Select(itemCols...).
		From("items").
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var item catalog.Item
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("item", code)
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}

// GetByIDs returns the subset of requested items that exist, keyed by ID.
func (r *ItemRepo) GetByIDs(ctx context.Context, itemIDs []id.ID) (map[id.ID]*catalog.Item, error) {
	result := make(map[id.ID]*catalog.Item, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.builder().
		Select(itemCols...).
		From("items").
		Where(squirrel.Eq{"id": itemIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []catalog.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	for i := range items {
		result[items[i].ID] = &items[i]
	}
	return result, nil
}

// List returns items matching the filter, ordered by code.
func (r *ItemRepo) List(ctx context.Context, f catalog.ListFilter) ([]catalog.Item, error) {
	q := r.builder().
		Select(itemCols...).
		From("items").
		OrderBy("code ASC")

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if f.OnlyActive {
		q = q.Where(squirrel.Eq{"active": true})
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

	var items []catalog.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return items, nil
}
