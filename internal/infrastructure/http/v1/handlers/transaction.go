package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/domain/sales"
	"pharmapos/internal/infrastructure/http/v1/dto"
	"pharmapos/internal/infrastructure/storage/postgres"
)

// TransactionHandler handles point-of-sale endpoints.
type TransactionHandler struct {
	*BaseHandler
	service *sales.Service
	audit   *postgres.AuditService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(service *sales.Service, audit *postgres.AuditService) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// Checkout processes a sale and returns the printable receipt.
// POST /api/v1/transactions
func (h *TransactionHandler) Checkout(c *gin.Context) {
	cashierID, ok := h.ActorID(c)
	if !ok {
		return
	}

	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := h.service.Checkout(c.Request.Context(), req.ToInput(cashierID))
	if err != nil {
		h.Error(c, err)
		return
	}

	auditLog(c, h.audit, "transaction", receipt.Transaction.ID, postgres.AuditActionSale, map[string]any{
		"number": receipt.Transaction.Number,
		"total":  receipt.Transaction.Total,
	})

	c.JSON(http.StatusCreated, receipt)
}

// Refund reverses a completed sale.
// POST /api/v1/transactions/:id/refund
func (h *TransactionHandler) Refund(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	txnID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	refund, err := h.service.Refund(c.Request.Context(), txnID, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	auditLog(c, h.audit, "transaction", refund.ID, postgres.AuditActionRefund, map[string]any{
		"number":  refund.Number,
		"refunds": txnID,
		"total":   refund.Total,
	})

	h.OK(c, refund)
}

// Get retrieves a transaction with its lines.
// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	txnID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	txn, err := h.service.GetByID(c.Request.Context(), txnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, txn)
}

// GetReceipt rebuilds the receipt for a stored transaction.
// GET /api/v1/transactions/:id/receipt
func (h *TransactionHandler) GetReceipt(c *gin.Context) {
	txnID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.service.GetReceipt(c.Request.Context(), txnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, receipt)
}

// List retrieves transactions with filtering.
// GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var query dto.TransactionListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid cashier id").WithDetail("error", err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
