package dto

import (
	"time"

	"tally/internal/domain/ledger"
)

// RecordMovementRequest creates one ledger movement.
type RecordMovementRequest struct {
	ItemID       string     `json:"itemId" binding:"required"`
	Kind         string     `json:"kind" binding:"required"`
	Quantity     int64      `json:"quantity" binding:"required"`
	MovementDate *time.Time `json:"movementDate"`
	Note         string     `json:"note"`
}

// ForcedReductionRequest creates a SALE reduction without a sufficiency check.
type ForcedReductionRequest struct {
	ItemID       string     `json:"itemId" binding:"required"`
	Quantity     int64      `json:"quantity" binding:"required"`
	MovementDate *time.Time `json:"movementDate"`
	Note         string     `json:"note"`
}

// ForcedReductionResponse reports the movement and whether the balance went
// negative.
type ForcedReductionResponse struct {
	Movement        *ledger.MovementRecord `json:"movement"`
	NegativeBalance bool                   `json:"negativeBalance"`
}

// MovementQuery filters movement listings.
type MovementQuery struct {
	ItemID string     `form:"itemId"`
	Kind   string     `form:"kind"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Limit  int        `form:"limit"`
	Offset int        `form:"offset"`
}

// StockResponse reports a reconstructed quantity.
type StockResponse struct {
	ItemID   string    `json:"itemId"`
	TenantID string    `json:"tenantId"`
	Quantity int64     `json:"quantity"`
	RefDate  time.Time `json:"refDate"`
}

// StockCheckQuery asks whether the balance covers a quantity.
type StockCheckQuery struct {
	Quantity int64 `form:"quantity" binding:"required"`
}

// StockCheckResponse answers a sufficiency check.
type StockCheckResponse struct {
	ItemID     string `json:"itemId"`
	Quantity   int64  `json:"quantity"`
	Sufficient bool   `json:"sufficient"`
}
