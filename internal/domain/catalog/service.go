package catalog

import (
	"context"
	"fmt"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/types"
	"tally/pkg/logger"
)

// MovementCounter reports how many ledger movements reference an item.
// Implemented by the ledger repository; used to protect movement history.
type MovementCounter interface {
	CountByItem(ctx context.Context, itemID id.ID) (int64, error)
}

// Service provides catalog item operations.
type Service struct {
	repo      Repository
	movements MovementCounter
}

// NewService creates the catalog service.
func NewService(repo Repository, movements MovementCounter) *Service {
	return &Service{repo: repo, movements: movements}
}

// Create validates and persists a new item.
func (s *Service) Create(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	if existing, err := s.repo.GetByCode(ctx, item.Code); err == nil && existing != nil {
		return apperror.NewConflict("item with this code already exists").
			WithDetail("code", item.Code)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	logger.Info(ctx, "item created", "item_id", item.ID, "code", item.Code)
	return nil
}

// UpdateInput carries partial updates; nil fields are left unchanged.
type UpdateInput struct {
	Description *string
	UnitPrice   *types.Money
	Active      *bool
}

// Update applies a partial update to an item.
func (s *Service) Update(ctx context.Context, itemID id.ID, in UpdateInput) (*Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if in.Active != nil {
		item.Active = *in.Active
	}

	if err := item.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// Delete removes an item. Items with movement history cannot be deleted, only
// deactivated; the ledger must survive its catalog references.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return err
	}

	count, err := s.movements.CountByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("count movements: %w", err)
	}
	if count > 0 {
		return apperror.NewConflict("item has movement history; deactivate it instead").
			WithDetail("item_id", itemID.String()).
			WithDetail("movements", count)
	}

	return s.repo.Delete(ctx, itemID)
}

// GetByID returns one item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// List returns items matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Item, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	return s.repo.List(ctx, f)
}
