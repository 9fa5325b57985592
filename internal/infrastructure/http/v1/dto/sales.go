package dto

import (
	"time"

	"tally/internal/domain/sales"
)

// SaleLineRequest is one sold item.
type SaleLineRequest struct {
	ItemID    string `json:"itemId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	UnitPrice string `json:"unitPrice" binding:"required"`
}

// CreateSaleRequest creates a sale.
type CreateSaleRequest struct {
	SaleType        string            `json:"saleType" binding:"required"`
	Lines           []SaleLineRequest `json:"lines"`
	InformedValue   string            `json:"informedValue"`
	FreightValue    string            `json:"freightValue"`
	ExtraValue      string            `json:"extraValue"`
	CommissionValue string            `json:"commissionValue"`
	PostageValue    string            `json:"postageValue"`
	Date            *time.Time        `json:"date"`
	Note            string            `json:"note"`
}

// CreateSaleResponse reports the created sale and any negative-stock warnings.
type CreateSaleResponse struct {
	ID       string               `json:"id"`
	Warnings []sales.StockWarning `json:"warnings,omitempty"`
}

// SaleQuery filters sale listings.
type SaleQuery struct {
	Type   string     `form:"type"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Limit  int        `form:"limit"`
	Offset int        `form:"offset"`
}

// CreateExpenseRequest creates an expense.
type CreateExpenseRequest struct {
	Category    string     `json:"category" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Value       string     `json:"value" binding:"required"`
	Date        *time.Time `json:"date"`
}

// ExpenseQuery filters expense listings.
type ExpenseQuery struct {
	Category string     `form:"category"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Limit    int        `form:"limit"`
	Offset   int        `form:"offset"`
}

// LoginRequest authenticates a user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
