package handlers

import (
	"github.com/gin-gonic/gin"

	"tally/internal/domain/profit"
	"tally/internal/infrastructure/http/v1/dto"
)

// ProfitHandler exposes the partner profit distribution.
type ProfitHandler struct {
	*BaseHandler
	svc *profit.Service
}

// NewProfitHandler creates a new profit handler.
func NewProfitHandler(svc *profit.Service) *ProfitHandler {
	return &ProfitHandler{
		BaseHandler: NewBaseHandler(),
		svc:         svc,
	}
}

// Distribution handles GET /profit/distribution.
func (h *ProfitHandler) Distribution(c *gin.Context) {
	var q dto.DateRangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.svc.DistributeProfit(c.Request.Context(), h.Tenant(c), q.From, q.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
