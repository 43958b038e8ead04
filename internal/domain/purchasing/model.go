// Package purchasing implements the purchase order workflow:
// draft, receive (restock), cancel.
package purchasing

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/entity"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
)

// Status of a purchase order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// Line is one ordered item. Batch and expiry, when present, overwrite the
// product's shelf batch on receipt.
type Line struct {
	ID              id.ID       `db:"id" json:"id"`
	PurchaseOrderID id.ID       `db:"purchase_order_id" json:"-"`
	ProductID       id.ID       `db:"product_id" json:"productId"`
	ProductName     string      `db:"product_name" json:"productName"`
	Quantity        int64       `db:"quantity" json:"quantity"`
	UnitPrice       types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal       types.Money `db:"line_total" json:"lineTotal"`
	BatchNumber     string      `db:"batch_number" json:"batchNumber,omitempty"`
	ExpiryDate      *time.Time  `db:"expiry_date" json:"expiryDate,omitempty"`
}

// PurchaseOrder is a restocking document.
type PurchaseOrder struct {
	entity.Document

	SupplierID   id.ID  `db:"supplier_id" json:"supplierId"`
	SupplierName string `db:"supplier_name" json:"supplierName"`

	Status Status `db:"status" json:"status"`

	ExpectedDeliveryDate time.Time  `db:"expected_delivery_date" json:"expectedDeliveryDate"`
	DeliveryDate         *time.Time `db:"delivery_date" json:"deliveryDate,omitempty"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Lines []Line `db:"-" json:"lines"`
}

// NewPurchaseOrder creates a pending order for a supplier.
func NewPurchaseOrder(supplierID id.ID, supplierName string) *PurchaseOrder {
	return &PurchaseOrder{
		Document:     entity.NewDocument(),
		SupplierID:   supplierID,
		SupplierName: supplierName,
		Status:       StatusPending,
	}
}

// Validate implements entity.Validatable.
func (po *PurchaseOrder) Validate(ctx context.Context) error {
	if err := po.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(po.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if !po.Status.IsValid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("field", "status").
			WithDetail("value", string(po.Status))
	}

	if po.ExpectedDeliveryDate.IsZero() {
		return apperror.NewValidation("expected delivery date is required").
			WithDetail("field", "expectedDeliveryDate")
	}

	if len(po.Lines) == 0 {
		return apperror.NewValidation("order must contain at least one line").
			WithDetail("field", "lines")
	}

	for i, line := range po.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("line product is required").
				WithDetail("index", i)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("index", i).
				WithDetail("quantity", line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price cannot be negative").
				WithDetail("index", i)
		}
	}

	return nil
}

// ComputeTotals fills per-line totals and the order total.
func (po *PurchaseOrder) ComputeTotals() {
	total := types.ZeroMoney()
	for i := range po.Lines {
		po.Lines[i].LineTotal = po.Lines[i].UnitPrice.Mul(types.NewMoneyFromInt(po.Lines[i].Quantity))
		total = total.Add(po.Lines[i].LineTotal)
	}
	po.TotalAmount = total
}
