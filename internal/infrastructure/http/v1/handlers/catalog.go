package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"tally/internal/core/apperror"
	"tally/internal/domain/catalog"
	"tally/internal/domain/ledger"
	"tally/internal/infrastructure/http/v1/dto"
)

// CatalogHandler exposes catalog item CRUD and the stock views derived from
// the ledger.
type CatalogHandler struct {
	*BaseHandler
	items *catalog.Service
	stock *ledger.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(items *catalog.Service, stock *ledger.Service) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(),
		items:       items,
		stock:       stock,
	}
}

// Create handles POST /items.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	price, err := dto.ParseMoney(req.UnitPrice)
	if err != nil {
		h.Error(c, err)
		return
	}

	item := catalog.NewItem(req.Code, req.Description, price)
	if err := h.items.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID)
}

// Update handles PATCH /items/:id.
func (h *CatalogHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in := catalog.UpdateInput{
		Description: req.Description,
		Active:      req.Active,
	}
	if req.UnitPrice != nil {
		price, err := dto.ParseMoney(*req.UnitPrice)
		if err != nil {
			h.Error(c, err)
			return
		}
		in.UnitPrice = &price
	}

	item, err := h.items.Update(c.Request.Context(), itemID, in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Delete handles DELETE /items/:id.
func (h *CatalogHandler) Delete(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.items.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /items/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// List handles GET /items.
func (h *CatalogHandler) List(c *gin.Context) {
	var q dto.ItemQuery
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.items.List(c.Request.Context(), catalog.ListFilter{
		Search:     q.Search,
		OnlyActive: q.OnlyActive,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// Stock handles GET /stock/:itemId. An optional `at` date reconstructs the
// quantity as of that day.
func (h *CatalogHandler) Stock(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	refDate := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date").WithDetail("at", raw))
			return
		}
		refDate = parsed
	}

	t := h.Tenant(c)
	quantity, err := h.stock.QuantityAt(c.Request.Context(), t, itemID, refDate)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.StockResponse{
		ItemID:   itemID.String(),
		TenantID: t.String(),
		Quantity: quantity,
		RefDate:  ledger.Day(refDate),
	})
}

// StockCheck handles GET /stock/:itemId/check.
func (h *CatalogHandler) StockCheck(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var q dto.StockCheckQuery
	if !h.BindQuery(c, &q) {
		return
	}

	sufficient, err := h.stock.HasSufficientStock(c.Request.Context(), h.Tenant(c), itemID, q.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.StockCheckResponse{
		ItemID:     itemID.String(),
		Quantity:   q.Quantity,
		Sufficient: sufficient,
	})
}
