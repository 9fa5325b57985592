package catalog

import (
	"context"

	"tally/internal/core/id"
)

// Repository defines item persistence.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, itemID id.ID) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	GetByCode(ctx context.Context, code string) (*Item, error)

	// GetByIDs returns the subset of requested items that exist, keyed by ID.
	GetByIDs(ctx context.Context, itemIDs []id.ID) (map[id.ID]*Item, error)

	List(ctx context.Context, f ListFilter) ([]Item, error)
}
