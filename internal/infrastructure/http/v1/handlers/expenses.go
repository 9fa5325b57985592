package handlers

import (
	"github.com/gin-gonic/gin"

	"tally/internal/domain/expense"
	"tally/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler exposes expense records.
type ExpenseHandler struct {
	*BaseHandler
	svc *expense.Service
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(svc *expense.Service) *ExpenseHandler {
	return &ExpenseHandler{
		BaseHandler: NewBaseHandler(),
		svc:         svc,
	}
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category, err := expense.ParseCategory(req.Category)
	if err != nil {
		h.Error(c, err)
		return
	}
	value, err := dto.ParseMoney(req.Value)
	if err != nil {
		h.Error(c, err)
		return
	}

	e := &expense.Expense{
		Category:    category,
		Description: req.Description,
		Value:       value,
	}
	if req.Date != nil {
		e.Date = *req.Date
	}

	if err := h.svc.Create(c.Request.Context(), h.Tenant(c), e); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, e.ID)
}

// Delete handles DELETE /expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	expenseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), h.Tenant(c), expenseID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	expenseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	e, err := h.svc.GetByID(c.Request.Context(), h.Tenant(c), expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// List handles GET /expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	var q dto.ExpenseQuery
	if !h.BindQuery(c, &q) {
		return
	}

	f := expense.Filter{
		FromDate: q.From,
		ToDate:   q.To,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Category != "" {
		category, err := expense.ParseCategory(q.Category)
		if err != nil {
			h.Error(c, err)
			return
		}
		f.Category = &category
	}

	expenses, err := h.svc.List(c.Request.Context(), h.Tenant(c), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: expenses, Count: len(expenses)})
}
