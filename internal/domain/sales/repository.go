package sales

import (
	"context"
	"time"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
)

// Repository defines sale persistence. Lines are stored with their sale and
// loaded together.
type Repository interface {
	Create(ctx context.Context, sale *SaleRecord) error
	Delete(ctx context.Context, t tenant.ID, saleID id.ID) error
	GetByID(ctx context.Context, t tenant.ID, saleID id.ID) (*SaleRecord, error)

	// List returns the tenant's sales matching the filter, ordered by sale
	// date descending.
	List(ctx context.Context, t tenant.ID, f Filter) ([]SaleRecord, error)

	// ListRange returns every sale for the tenant in [from, to], unpaginated,
	// for aggregation.
	ListRange(ctx context.Context, t tenant.ID, from, to time.Time) ([]SaleRecord, error)
}
