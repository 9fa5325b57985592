package ledger

import (
	"context"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
)

// Repository defines ledger persistence. Records are append-only: there is no
// update or delete — corrections are new ADJUST movements.
type Repository interface {
	// Insert appends a movement record.
	Insert(ctx context.Context, rec *MovementRecord) error

	// GetByID returns a movement within the tenant's partition.
	GetByID(ctx context.Context, t tenant.ID, recID id.ID) (*MovementRecord, error)

	// ListForReplay returns every record for (item, tenant) ordered ascending
	// by (movement_date, registered_at), the replay order.
	ListForReplay(ctx context.Context, t tenant.ID, itemID id.ID) ([]MovementRecord, error)

	// List returns the tenant's movements matching the filter, ordered by
	// movement_date then registered_at, both descending.
	List(ctx context.Context, t tenant.ID, f Filter) ([]MovementRecord, error)

	// ListRecent returns the tenant's most recently registered movements.
	ListRecent(ctx context.Context, t tenant.ID, limit int) ([]MovementRecord, error)

	// ListAllTenants returns movements across every tenant partition, ordered
	// by registered_at descending. Callers enforce the privilege check.
	ListAllTenants(ctx context.Context, f Filter) ([]MovementRecord, error)

	// CountByItem counts movements referencing an item across all tenants.
	// Used to protect movement history when catalog items are deleted.
	CountByItem(ctx context.Context, itemID id.ID) (int64, error)

	// AcquireItemLock serializes writers on one (item, tenant) key. Must be
	// called inside a transaction; the lock is released on commit or rollback.
	AcquireItemLock(ctx context.Context, t tenant.ID, itemID id.ID) error
}
