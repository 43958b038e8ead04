package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/domain/inventory"
	"pharmapos/internal/infrastructure/http/v1/dto"
	"pharmapos/internal/infrastructure/storage/postgres"
)

// InventoryHandler handles manual stock corrections.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
	audit   *postgres.AuditService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service *inventory.Service, audit *postgres.AuditService) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// Adjust corrects a stock count by a signed delta.
// POST /api/v1/inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Adjust(c.Request.Context(), req.ProductID, req.Delta, req.Notes, actorID); err != nil {
		h.Error(c, err)
		return
	}

	auditLog(c, h.audit, "product", req.ProductID, postgres.AuditActionAdjust, map[string]any{
		"delta": req.Delta,
		"notes": req.Notes,
	})

	h.Success(c, "stock adjusted")
}

// Dispose writes off expired or damaged stock.
// POST /api/v1/inventory/dispose
func (h *InventoryHandler) Dispose(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	var req dto.DisposeStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Dispose(c.Request.Context(), req.ProductID, req.Quantity, req.Reason, actorID); err != nil {
		h.Error(c, err)
		return
	}

	auditLog(c, h.audit, "product", req.ProductID, postgres.AuditActionDispose, map[string]any{
		"quantity": req.Quantity,
		"reason":   req.Reason,
	})

	h.Success(c, "stock disposed")
}
