// Package ledger implements the inventory movement ledger: an append-only
// record of stock changes from which item quantities are derived by replay.
package ledger

import (
	"time"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
)

// Kind is the closed set of movement kinds. Raw input is parsed once at the
// boundary; everything past ParseKind works with validated values.
type Kind string

const (
	KindEntry    Kind = "ENTRY"
	KindExit     Kind = "EXIT"
	KindSale     Kind = "SALE"
	KindAdjust   Kind = "ADJUST"
	KindTransfer Kind = "TRANSFER"
)

// Kinds lists the defined movement kinds.
var Kinds = []Kind{KindEntry, KindExit, KindSale, KindAdjust, KindTransfer}

// ParseKind converts a raw string to a movement kind.
// The second return value reports whether the input named a defined kind.
func ParseKind(raw string) (Kind, bool) {
	switch Kind(raw) {
	case KindEntry, KindExit, KindSale, KindAdjust, KindTransfer:
		return Kind(raw), true
	}
	return "", false
}

// IsValid reports whether k is a defined movement kind.
func (k Kind) IsValid() bool {
	_, ok := ParseKind(string(k))
	return ok
}

// Delta returns the signed effect of this kind on a running balance.
// TRANSFER has no sign rule in the replay fold; it contributes zero.
func (k Kind) Delta(quantity int64) int64 {
	switch k {
	case KindEntry, KindAdjust:
		return quantity
	case KindExit, KindSale:
		return -quantity
	}
	return 0
}

// MovementRecord is one immutable event in the ledger.
//
// PreviousQuantity and CurrentQuantity are a denormalized snapshot captured at
// write time. The authoritative quantity is always recomputable by replay;
// the snapshot is a cache, never a second source of truth.
type MovementRecord struct {
	ID       id.ID     `db:"id" json:"id"`
	ItemID   id.ID     `db:"item_id" json:"itemId"`
	TenantID tenant.ID `db:"tenant_id" json:"tenantId"`
	Kind     Kind      `db:"kind" json:"kind"`

	// Quantity is always positive; the kind carries the sign.
	Quantity int64 `db:"quantity" json:"quantity"`

	// MovementDate is the business-effective calendar date.
	MovementDate time.Time `db:"movement_date" json:"movementDate"`

	// RegisteredAt is the wall-clock creation instant, used only for
	// tie-breaking and most-recent ordering, never for date filtering.
	RegisteredAt time.Time `db:"registered_at" json:"registeredAt"`

	PreviousQuantity int64 `db:"previous_quantity" json:"previousQuantity"`
	CurrentQuantity  int64 `db:"current_quantity" json:"currentQuantity"`

	Note string `db:"note" json:"note,omitempty"`
}

// Filter narrows movement listings.
type Filter struct {
	ItemID   *id.ID
	Kind     *Kind
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// RecordInput is the validated input for recording a movement.
type RecordInput struct {
	ItemID       id.ID
	Kind         Kind
	Quantity     int64
	MovementDate time.Time
	Note         string
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
