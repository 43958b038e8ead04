package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes entity change history.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: NewBaseHandler(),
		audit:       audit,
	}
}

// EntityHistory returns audit entries for an entity, newest first.
// GET /api/v1/audit/:entityType/:id
func (h *AuditHandler) EntityHistory(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), c.Param("entityType"), entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entries)
}
