package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/domain/purchasing"
	"pharmapos/internal/infrastructure/http/v1/dto"
	"pharmapos/internal/infrastructure/storage/postgres"
)

// PurchaseOrderHandler handles restocking endpoints.
type PurchaseOrderHandler struct {
	*BaseHandler
	service *purchasing.Service
	audit   *postgres.AuditService
}

// NewPurchaseOrderHandler creates a new purchase order handler.
func NewPurchaseOrderHandler(service *purchasing.Service, audit *postgres.AuditService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// Create drafts a pending purchase order.
// POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	po := req.ToModel()
	if err := h.service.Create(c.Request.Context(), po, actorID); err != nil {
		h.Error(c, err)
		return
	}

	auditLog(c, h.audit, "purchase_order", po.ID, postgres.AuditActionCreate, map[string]any{
		"number": po.Number,
		"total":  po.TotalAmount,
	})

	h.Created(c, po.ID)
}

// Get retrieves a purchase order with its lines.
// GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	po, err := h.service.GetByID(c.Request.Context(), poID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, po)
}

// Update edits a pending order. A status change to received or cancelled
// routes through the corresponding workflow.
// PUT /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	po, err := h.service.GetByID(c.Request.Context(), poID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(po)

	if err := h.service.Update(c.Request.Context(), po, actorID); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, po)
}

// Receive marks an order delivered and restocks its products.
// POST /api/v1/purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Receive(c.Request.Context(), poID, actorID); err != nil {
		h.Error(c, err)
		return
	}

	auditLog(c, h.audit, "purchase_order", poID, postgres.AuditActionReceive, nil)

	h.Success(c, "order received")
}

// Cancel voids a pending order.
// POST /api/v1/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), poID, actorID); err != nil {
		h.Error(c, err)
		return
	}

	auditLog(c, h.audit, "purchase_order", poID, postgres.AuditActionUpdate, map[string]any{
		"status": purchasing.StatusCancelled,
	})

	h.Success(c, "order cancelled")
}

// Delete removes a pending order.
// DELETE /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), poID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List retrieves purchase orders with filtering.
// GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var query dto.PurchaseOrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid supplier id").WithDetail("error", err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
