package ledger

import (
	"context"
	"fmt"
	"time"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/tx"
	"tally/internal/domain/catalog"
	"tally/pkg/logger"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ItemReader is the catalog lookup the ledger consumes.
type ItemReader interface {
	GetByID(ctx context.Context, itemID id.ID) (*catalog.Item, error)
}

// Auditor records an audit trail entry for ledger mutations.
// Auditing is best-effort: a failed trail write never fails the movement.
type Auditor interface {
	RecordChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// Audit actions emitted by the ledger service.
const (
	auditActionRecord = "record"
	auditActionForced = "forced_reduction"
)

// Service provides the ledger operations: recording movements and
// reconstructing quantities by replay.
type Service struct {
	repo  Repository
	items ItemReader
	txm   tx.Manager
	audit Auditor
}

// NewService creates the ledger service. audit may be nil.
func NewService(repo Repository, items ItemReader, txm tx.Manager, audit Auditor) *Service {
	return &Service{
		repo:  repo,
		items: items,
		txm:   txm,
		audit: audit,
	}
}

// QuantityAt reconstructs the item's quantity for the tenant as of refDate by
// replaying the movement ledger. The result may be negative.
func (s *Service) QuantityAt(ctx context.Context, t tenant.ID, itemID id.ID, refDate time.Time) (int64, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return 0, err
	}

	records, err := s.repo.ListForReplay(ctx, t, itemID)
	if err != nil {
		return 0, fmt.Errorf("list for replay: %w", err)
	}

	return FoldAt(records, refDate), nil
}

// HasSufficientStock reports whether the current balance covers quantity.
// Non-positive requests are no-ops and always succeed.
func (s *Service) HasSufficientStock(ctx context.Context, t tenant.ID, itemID id.ID, quantity int64) (bool, error) {
	if quantity <= 0 {
		return true, nil
	}
	balance, err := s.QuantityAt(ctx, t, itemID, time.Now())
	if err != nil {
		return false, err
	}
	return balance >= quantity, nil
}

// RecordMovement validates the input and appends a movement record.
//
// The snapshot computation and the append run as one unit: writers on the
// same (item, tenant) key are serialized by a per-key lock held for the
// transaction, so PreviousQuantity can never be read stale.
func (s *Service) RecordMovement(ctx context.Context, t tenant.ID, in RecordInput) (*MovementRecord, error) {
	if !in.Kind.IsValid() {
		return nil, apperror.NewUnknownMovementKind(string(in.Kind))
	}
	if in.Quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(in.Quantity)
	}
	if _, err := s.items.GetByID(ctx, in.ItemID); err != nil {
		return nil, err
	}

	rec, err := s.append(ctx, t, in)
	if err != nil {
		return nil, err
	}

	s.auditChange(ctx, rec, auditActionRecord)
	logger.Info(ctx, "movement recorded",
		"movement_id", rec.ID,
		"item_id", rec.ItemID,
		"kind", rec.Kind,
		"quantity", rec.Quantity,
		"current_quantity", rec.CurrentQuantity,
	)
	return rec, nil
}

// RecordForcedReduction appends a SALE reduction without any sufficiency
// check. A negative resulting balance is a valid, expected outcome; the
// returned flag lets callers surface it as a warning.
func (s *Service) RecordForcedReduction(ctx context.Context, t tenant.ID, itemID id.ID, quantity int64, movementDate time.Time, note string) (*MovementRecord, bool, error) {
	if quantity <= 0 {
		return nil, false, apperror.NewInvalidQuantity(quantity)
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, false, err
	}

	rec, err := s.append(ctx, t, RecordInput{
		ItemID:       itemID,
		Kind:         KindSale,
		Quantity:     quantity,
		MovementDate: movementDate,
		Note:         note,
	})
	if err != nil {
		return nil, false, err
	}

	negative := rec.CurrentQuantity < 0
	s.auditChange(ctx, rec, auditActionForced)
	if negative {
		logger.Warn(ctx, "forced reduction drove balance negative",
			"movement_id", rec.ID,
			"item_id", rec.ItemID,
			"current_quantity", rec.CurrentQuantity,
		)
	}
	return rec, negative, nil
}

// append computes the balance snapshot and inserts the record inside one
// transaction, holding the per-key write lock throughout.
func (s *Service) append(ctx context.Context, t tenant.ID, in RecordInput) (*MovementRecord, error) {
	now := time.Now().UTC()
	movementDate := in.MovementDate
	if movementDate.IsZero() {
		movementDate = now
	}
	movementDate = Day(movementDate)

	var rec *MovementRecord
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.AcquireItemLock(ctx, t, in.ItemID); err != nil {
			return fmt.Errorf("acquire item lock: %w", err)
		}

		records, err := s.repo.ListForReplay(ctx, t, in.ItemID)
		if err != nil {
			return fmt.Errorf("list for replay: %w", err)
		}
		previous := FoldAt(records, now)

		rec = &MovementRecord{
			ID:               id.New(),
			ItemID:           in.ItemID,
			TenantID:         t,
			Kind:             in.Kind,
			Quantity:         in.Quantity,
			MovementDate:     movementDate,
			RegisteredAt:     now,
			PreviousQuantity: previous,
			CurrentQuantity:  previous + in.Kind.Delta(in.Quantity),
			Note:             in.Note,
		}
		return s.repo.Insert(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetMovement returns one movement within the tenant's partition.
func (s *Service) GetMovement(ctx context.Context, t tenant.ID, recID id.ID) (*MovementRecord, error) {
	return s.repo.GetByID(ctx, t, recID)
}

// ListMovements returns the tenant's movements matching the filter.
func (s *Service) ListMovements(ctx context.Context, t tenant.ID, f Filter) ([]MovementRecord, error) {
	f = normalizeFilter(f)
	return s.repo.List(ctx, t, f)
}

// ListConsolidated returns movements across all tenants, most recent first.
// Only the privileged tenant may call it.
func (s *Service) ListConsolidated(ctx context.Context, t tenant.ID, f Filter) ([]MovementRecord, error) {
	if !t.IsPrivileged() {
		return nil, apperror.NewForbidden("consolidated view is restricted").
			WithDetail("tenant", t.String())
	}
	f = normalizeFilter(f)
	return s.repo.ListAllTenants(ctx, f)
}

func (s *Service) auditChange(ctx context.Context, rec *MovementRecord, action string) {
	if s.audit == nil {
		return
	}
	err := s.audit.RecordChange(ctx, "movement", rec.ID, action, map[string]any{
		"item_id":           rec.ItemID.String(),
		"tenant_id":         rec.TenantID.String(),
		"kind":              string(rec.Kind),
		"quantity":          rec.Quantity,
		"previous_quantity": rec.PreviousQuantity,
		"current_quantity":  rec.CurrentQuantity,
	})
	if err != nil {
		logger.Warn(ctx, "audit write failed", "movement_id", rec.ID, "error", err)
	}
}

func normalizeFilter(f Filter) Filter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
