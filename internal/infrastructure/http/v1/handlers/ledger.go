package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/security"
	"tally/internal/domain/ledger"
	"tally/internal/infrastructure/http/v1/dto"
	"tally/internal/infrastructure/storage/postgres"
)

// LedgerHandler exposes the movement ledger.
type LedgerHandler struct {
	*BaseHandler
	svc      *ledger.Service
	reporter *ledger.Reporter
	flags    security.FeatureFlagProvider
	audit    *postgres.AuditService
}

// NewLedgerHandler creates a new ledger handler. audit may be nil; the audit
// history endpoint then reports NotFound.
func NewLedgerHandler(svc *ledger.Service, reporter *ledger.Reporter, flags security.FeatureFlagProvider, audit *postgres.AuditService) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler: NewBaseHandler(),
		svc:         svc,
		reporter:    reporter,
		flags:       flags,
		audit:       audit,
	}
}

// Record handles POST /movements.
func (h *LedgerHandler) Record(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", req.ItemID))
		return
	}
	kind, ok := ledger.ParseKind(req.Kind)
	if !ok {
		h.Error(c, apperror.NewUnknownMovementKind(req.Kind))
		return
	}

	in := ledger.RecordInput{
		ItemID:   itemID,
		Kind:     kind,
		Quantity: req.Quantity,
		Note:     req.Note,
	}
	if req.MovementDate != nil {
		in.MovementDate = *req.MovementDate
	}

	rec, err := h.svc.RecordMovement(c.Request.Context(), h.Tenant(c), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Forced handles POST /movements/forced.
func (h *LedgerHandler) Forced(c *gin.Context) {
	var req dto.ForcedReductionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", req.ItemID))
		return
	}

	date := time.Now()
	if req.MovementDate != nil {
		date = *req.MovementDate
	}

	rec, negative, err := h.svc.RecordForcedReduction(c.Request.Context(), h.Tenant(c), itemID, req.Quantity, date, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ForcedReductionResponse{
		Movement:        rec,
		NegativeBalance: negative,
	})
}

// Get handles GET /movements/:id.
func (h *LedgerHandler) Get(c *gin.Context) {
	recID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.svc.GetMovement(c.Request.Context(), h.Tenant(c), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// List handles GET /movements.
func (h *LedgerHandler) List(c *gin.Context) {
	f, ok := h.bindFilter(c)
	if !ok {
		return
	}

	records, err := h.svc.ListMovements(c.Request.Context(), h.Tenant(c), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: records, Count: len(records)})
}

// Consolidated handles GET /movements/consolidated: the cross-tenant view,
// restricted to the privileged tenant.
func (h *LedgerHandler) Consolidated(c *gin.Context) {
	f, ok := h.bindFilter(c)
	if !ok {
		return
	}

	records, err := h.svc.ListConsolidated(c.Request.Context(), h.Tenant(c), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: records, Count: len(records)})
}

// Last handles GET /movements/last.
func (h *LedgerHandler) Last(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 0)

	records, err := h.reporter.LastMovements(c.Request.Context(), h.Tenant(c), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: records, Count: len(records)})
}

// Report handles GET /movements/report.
func (h *LedgerHandler) Report(c *gin.Context) {
	var q dto.DateRangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	report, err := h.reporter.BuildReport(c.Request.Context(), h.Tenant(c), q.From, q.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Statistics handles GET /movements/statistics, gated by a feature flag.
func (h *LedgerHandler) Statistics(c *gin.Context) {
	if !h.flags.IsEnabled(c.Request.Context(), security.FlagMovementStatistic) {
		h.Error(c, apperror.NewForbidden("movement statistics are not enabled for this tenant"))
		return
	}

	var q dto.DateRangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	stats, err := h.reporter.BuildStatistics(c.Request.Context(), h.Tenant(c), q.From, q.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// AuditHistory handles GET /movements/:id/audit, gated by a feature flag.
func (h *LedgerHandler) AuditHistory(c *gin.Context) {
	if !h.flags.IsEnabled(c.Request.Context(), security.FlagAuditHistory) {
		h.Error(c, apperror.NewForbidden("audit history is not enabled for this tenant"))
		return
	}
	if h.audit == nil {
		h.Error(c, apperror.NewNotFound("audit trail", "disabled"))
		return
	}

	recID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	// Existence check keeps the tenant partition boundary.
	if _, err := h.svc.GetMovement(c.Request.Context(), h.Tenant(c), recID); err != nil {
		h.Error(c, err)
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	entries, err := h.audit.GetEntityHistory(c.Request.Context(), "movement", recID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, Count: len(entries)})
}

func (h *LedgerHandler) bindFilter(c *gin.Context) (ledger.Filter, bool) {
	var q dto.MovementQuery
	if !h.BindQuery(c, &q) {
		return ledger.Filter{}, false
	}

	f := ledger.Filter{
		FromDate: q.From,
		ToDate:   q.To,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.ItemID != "" {
		itemID, err := id.Parse(q.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", q.ItemID))
			return ledger.Filter{}, false
		}
		f.ItemID = &itemID
	}
	if q.Kind != "" {
		kind, ok := ledger.ParseKind(q.Kind)
		if !ok {
			h.Error(c, apperror.NewUnknownMovementKind(q.Kind))
			return ledger.Filter{}, false
		}
		f.Kind = &kind
	}
	return f, true
}
