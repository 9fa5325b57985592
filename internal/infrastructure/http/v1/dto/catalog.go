package dto

// CreateItemRequest creates a catalog item.
type CreateItemRequest struct {
	Code        string `json:"code" binding:"required"`
	Description string `json:"description" binding:"required"`
	UnitPrice   string `json:"unitPrice"`
}

// UpdateItemRequest partially updates an item; nil fields are unchanged.
type UpdateItemRequest struct {
	Description *string `json:"description"`
	UnitPrice   *string `json:"unitPrice"`
	Active      *bool   `json:"active"`
}

// ItemQuery filters item listings.
type ItemQuery struct {
	Search     string `form:"search"`
	OnlyActive bool   `form:"onlyActive"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}
