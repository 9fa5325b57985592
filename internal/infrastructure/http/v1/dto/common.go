// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/types"
)

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates an ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// DateRangeQuery carries an optional reporting window.
type DateRangeQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// ParseMoney parses an optional monetary field; empty means zero.
func ParseMoney(s string) (types.Money, error) {
	if s == "" {
		return types.Zero(), nil
	}
	m, err := types.NewMoneyFromString(s)
	if err != nil {
		return types.Zero(), apperror.NewValidation("invalid monetary value").
			WithDetail("value", s)
	}
	return m, nil
}
