package ledger

import (
	"context"
	"fmt"
	"time"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/catalog"
)

const (
	topItemsSize      = 5
	defaultRecentSize = 100
	dayKeyFormat      = "2006-01-02"
)

// ItemBatchReader resolves catalog items in bulk for report enrichment.
type ItemBatchReader interface {
	GetByIDs(ctx context.Context, itemIDs []id.ID) (map[id.ID]*catalog.Item, error)
}

// ItemActivity is one row of the top-items ranking.
type ItemActivity struct {
	ItemID      id.ID  `json:"itemId"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Report summarizes the tenant's movements over a date range.
type Report struct {
	TenantID tenant.ID `json:"tenantId"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	TotalCount   int            `json:"totalCount"`
	CountsByKind map[Kind]int   `json:"countsByKind"`
	CountsByDay  map[string]int `json:"countsByDay"`

	// TotalValue sums unit price times quantity over movements whose item has
	// a known price.
	TotalValue types.Money `json:"totalValue"`

	TopItems []ItemActivity `json:"topItems"`
}

// KindTotals carries count and quantity sums for one movement direction.
type KindTotals struct {
	Count    int   `json:"count"`
	Quantity int64 `json:"quantity"`
}

// Statistics breaks the period's totals down by direction.
type Statistics struct {
	TenantID tenant.ID `json:"tenantId"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	Entries     KindTotals `json:"entries"`
	Exits       KindTotals `json:"exits"`
	Sales       KindTotals `json:"sales"`
	Adjustments KindTotals `json:"adjustments"`

	// NetQuantity is entries quantity minus exits plus sales quantity.
	NetQuantity int64 `json:"netQuantity"`
}

// Reporter builds movement summaries on top of the ledger's filtering
// primitives.
type Reporter struct {
	repo  Repository
	items ItemBatchReader
}

// NewReporter creates the movement reporter.
func NewReporter(repo Repository, items ItemBatchReader) *Reporter {
	return &Reporter{repo: repo, items: items}
}

// DefaultRange returns the reporting window used when dates are absent:
// one month back until today.
func DefaultRange(now time.Time) (time.Time, time.Time) {
	to := Day(now)
	return to.AddDate(0, -1, 0), to
}

// BuildReport summarizes movements for the tenant and date range.
// Missing dates default to the last month up to today.
func (r *Reporter) BuildReport(ctx context.Context, t tenant.ID, from, to *time.Time) (*Report, error) {
	fromDate, toDate := resolveRange(from, to)

	movements, err := r.listRange(ctx, t, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TenantID:     t,
		FromDate:     fromDate,
		ToDate:       toDate,
		TotalCount:   len(movements),
		CountsByKind: make(map[Kind]int),
		CountsByDay:  make(map[string]int),
		TotalValue:   types.Zero(),
	}

	// Top ranking is stable: ties keep first-encountered order.
	counts := make(map[id.ID]int)
	var order []id.ID
	for _, m := range movements {
		report.CountsByKind[m.Kind]++
		report.CountsByDay[m.MovementDate.Format(dayKeyFormat)]++
		if counts[m.ItemID] == 0 {
			order = append(order, m.ItemID)
		}
		counts[m.ItemID]++
	}

	items, err := r.items.GetByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("resolve items: %w", err)
	}

	for _, m := range movements {
		if item, ok := items[m.ItemID]; ok {
			report.TotalValue = report.TotalValue.Add(
				item.UnitPrice.Mul(types.MoneyFromInt(m.Quantity)),
			)
		}
	}

	report.TopItems = rankTopItems(order, counts, items)
	return report, nil
}

// BuildStatistics breaks the period's movements into directional totals.
func (r *Reporter) BuildStatistics(ctx context.Context, t tenant.ID, from, to *time.Time) (*Statistics, error) {
	fromDate, toDate := resolveRange(from, to)

	movements, err := r.listRange(ctx, t, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{TenantID: t, FromDate: fromDate, ToDate: toDate}
	for _, m := range movements {
		switch m.Kind {
		case KindEntry:
			stats.Entries.Count++
			stats.Entries.Quantity += m.Quantity
		case KindExit:
			stats.Exits.Count++
			stats.Exits.Quantity += m.Quantity
		case KindSale:
			stats.Sales.Count++
			stats.Sales.Quantity += m.Quantity
		case KindAdjust:
			stats.Adjustments.Count++
			stats.Adjustments.Quantity += m.Quantity
		}
	}
	stats.NetQuantity = stats.Entries.Quantity - (stats.Exits.Quantity + stats.Sales.Quantity)
	return stats, nil
}

// LastMovements returns the tenant's most recent movements, default 100.
func (r *Reporter) LastMovements(ctx context.Context, t tenant.ID, limit int) ([]MovementRecord, error) {
	if limit <= 0 {
		limit = defaultRecentSize
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return r.repo.ListRecent(ctx, t, limit)
}

func (r *Reporter) listRange(ctx context.Context, t tenant.ID, from, to time.Time) ([]MovementRecord, error) {
	movements, err := r.repo.List(ctx, t, Filter{FromDate: &from, ToDate: &to})
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

func resolveRange(from, to *time.Time) (time.Time, time.Time) {
	defFrom, defTo := DefaultRange(time.Now())
	fromDate, toDate := defFrom, defTo
	if from != nil {
		fromDate = Day(*from)
	}
	if to != nil {
		toDate = Day(*to)
	}
	return fromDate, toDate
}

func rankTopItems(order []id.ID, counts map[id.ID]int, items map[id.ID]*catalog.Item) []ItemActivity {
	ranked := make([]ItemActivity, 0, len(order))
	for _, itemID := range order {
		activity := ItemActivity{ItemID: itemID, Count: counts[itemID]}
		if item, ok := items[itemID]; ok {
			activity.Code = item.Code
			activity.Description = item.Description
		}
		ranked = append(ranked, activity)
	}

	// Stable by construction: insertion order breaks count ties.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Count > ranked[j-1].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > topItemsSize {
		ranked = ranked[:topItemsSize]
	}
	return ranked
}
