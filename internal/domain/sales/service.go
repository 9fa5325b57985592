package sales

import (
	"context"
	"fmt"
	"time"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/tx"
	"tally/internal/domain/ledger"
	"tally/pkg/logger"
)

// StockRecorder appends the sale's stock reductions to the ledger.
// Implemented by the ledger service.
type StockRecorder interface {
	RecordForcedReduction(ctx context.Context, t tenant.ID, itemID id.ID, quantity int64, movementDate time.Time, note string) (*ledger.MovementRecord, bool, error)
}

// StockWarning flags a line whose reduction drove the balance negative.
type StockWarning struct {
	ItemID  id.ID `json:"itemId"`
	Balance int64 `json:"balance"`
}

// Service provides sale operations. Recording a sale also writes one SALE
// movement per line; deleting a sale leaves the ledger untouched — stock
// corrections are explicit ADJUST movements.
type Service struct {
	repo  Repository
	stock StockRecorder
	txm   tx.Manager
}

// NewService creates the sales service.
func NewService(repo Repository, stock StockRecorder, txm tx.Manager) *Service {
	return &Service{repo: repo, stock: stock, txm: txm}
}

// Create validates and persists a sale, reducing stock for each line. The
// sale and its movements commit atomically. Reductions are forced: a line may
// drive an item's balance negative, reported through the returned warnings.
func (s *Service) Create(ctx context.Context, t tenant.ID, sale *SaleRecord) ([]StockWarning, error) {
	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if id.IsNil(sale.ID) {
		sale.ID = id.New()
	}
	sale.TenantID = t
	if sale.Date.IsZero() {
		sale.Date = now
	}
	sale.Date = ledger.Day(sale.Date)
	sale.CreatedAt = now

	var warnings []StockWarning
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		note := fmt.Sprintf("sale %s", sale.ID)
		for _, line := range sale.Lines {
			rec, negative, err := s.stock.RecordForcedReduction(ctx, t, line.ItemID, line.Quantity, sale.Date, note)
			if err != nil {
				return err
			}
			if negative {
				warnings = append(warnings, StockWarning{ItemID: line.ItemID, Balance: rec.CurrentQuantity})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"sale_type", sale.Type,
		"lines", len(sale.Lines),
		"stock_warnings", len(warnings),
	)
	return warnings, nil
}

// Delete removes a sale record. The ledger keeps the SALE movements it
// produced; compensate with ADJUST movements if the stock must be restored.
func (s *Service) Delete(ctx context.Context, t tenant.ID, saleID id.ID) error {
	if _, err := s.repo.GetByID(ctx, t, saleID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t, saleID); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	logger.Info(ctx, "sale deleted", "sale_id", saleID)
	return nil
}

// GetByID returns one sale within the tenant's partition.
func (s *Service) GetByID(ctx context.Context, t tenant.ID, saleID id.ID) (*SaleRecord, error) {
	return s.repo.GetByID(ctx, t, saleID)
}

// List returns the tenant's sales matching the filter.
func (s *Service) List(ctx context.Context, t tenant.ID, f Filter) ([]SaleRecord, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	return s.repo.List(ctx, t, f)
}
