package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/domain/sales"
	"tally/internal/infrastructure/http/v1/dto"
)

// SalesHandler exposes sale records and the revenue aggregate.
type SalesHandler struct {
	*BaseHandler
	svc        *sales.Service
	aggregator *sales.Aggregator
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(svc *sales.Service, aggregator *sales.Aggregator) *SalesHandler {
	return &SalesHandler{
		BaseHandler: NewBaseHandler(),
		svc:         svc,
		aggregator:  aggregator,
	}
}

// Create handles POST /sales.
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.toSale(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	warnings, err := h.svc.Create(c.Request.Context(), h.Tenant(c), sale)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateSaleResponse{
		ID:       sale.ID.String(),
		Warnings: warnings,
	})
}

// Delete handles DELETE /sales/:id.
func (h *SalesHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), h.Tenant(c), saleID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /sales/:id.
func (h *SalesHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.svc.GetByID(c.Request.Context(), h.Tenant(c), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sale)
}

// List handles GET /sales.
func (h *SalesHandler) List(c *gin.Context) {
	var q dto.SaleQuery
	if !h.BindQuery(c, &q) {
		return
	}

	f := sales.Filter{
		FromDate: q.From,
		ToDate:   q.To,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Type != "" {
		saleType, err := sales.ParseSaleType(q.Type)
		if err != nil {
			h.Error(c, err)
			return
		}
		f.Type = &saleType
	}

	records, err := h.svc.List(c.Request.Context(), h.Tenant(c), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: records, Count: len(records)})
}

// Revenue handles GET /sales/revenue: the per-type aggregate over a range.
func (h *SalesHandler) Revenue(c *gin.Context) {
	var q dto.DateRangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	agg, err := h.aggregator.Aggregate(c.Request.Context(), h.Tenant(c), q.From, q.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, agg)
}

func (h *SalesHandler) toSale(req dto.CreateSaleRequest) (*sales.SaleRecord, error) {
	saleType, err := sales.ParseSaleType(req.SaleType)
	if err != nil {
		return nil, err
	}

	sale := &sales.SaleRecord{
		Type: saleType,
		Note: req.Note,
	}
	if req.Date != nil {
		sale.Date = *req.Date
	}

	if sale.InformedValue, err = dto.ParseMoney(req.InformedValue); err != nil {
		return nil, err
	}
	if sale.FreightValue, err = dto.ParseMoney(req.FreightValue); err != nil {
		return nil, err
	}
	if sale.ExtraValue, err = dto.ParseMoney(req.ExtraValue); err != nil {
		return nil, err
	}
	if sale.CommissionValue, err = dto.ParseMoney(req.CommissionValue); err != nil {
		return nil, err
	}
	if sale.PostageValue, err = dto.ParseMoney(req.PostageValue); err != nil {
		return nil, err
	}

	for i, line := range req.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			return nil, apperror.NewValidation("invalid item id").
				WithDetail("line", i).
				WithDetail("itemId", line.ItemID)
		}
		unitPrice, err := dto.ParseMoney(line.UnitPrice)
		if err != nil {
			return nil, err
		}
		sale.Lines = append(sale.Lines, sales.SaleLine{
			ItemID:    itemID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
	}
	return sale, nil
}
