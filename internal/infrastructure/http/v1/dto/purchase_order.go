package dto

import (
	"time"

	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/purchasing"
)

// PurchaseOrderLineDTO is one ordered item.
type PurchaseOrderLineDTO struct {
	ProductID   id.ID       `json:"productId" binding:"required"`
	Quantity    int64       `json:"quantity" binding:"required,min=1"`
	UnitPrice   types.Money `json:"unitPrice"`
	BatchNumber string      `json:"batchNumber"`
	ExpiryDate  *time.Time  `json:"expiryDate"`
}

// CreatePurchaseOrderRequest for drafting an order.
type CreatePurchaseOrderRequest struct {
	SupplierID           id.ID                  `json:"supplierId" binding:"required"`
	ExpectedDeliveryDate time.Time              `json:"expectedDeliveryDate" binding:"required"`
	Notes                string                 `json:"notes"`
	Lines                []PurchaseOrderLineDTO `json:"lines" binding:"required,min=1"`
}

// ToModel converts the request to a pending purchase order.
func (r *CreatePurchaseOrderRequest) ToModel() *purchasing.PurchaseOrder {
	po := purchasing.NewPurchaseOrder(r.SupplierID, "")
	po.ExpectedDeliveryDate = r.ExpectedDeliveryDate
	po.Notes = r.Notes
	po.Lines = toLines(r.Lines)
	return po
}

// UpdatePurchaseOrderRequest for editing a pending order. Setting status
// to received or cancelled routes through the corresponding workflow.
type UpdatePurchaseOrderRequest struct {
	SupplierID           id.ID                  `json:"supplierId" binding:"required"`
	Status               string                 `json:"status" binding:"required"`
	ExpectedDeliveryDate time.Time              `json:"expectedDeliveryDate" binding:"required"`
	Notes                string                 `json:"notes"`
	Lines                []PurchaseOrderLineDTO `json:"lines" binding:"required,min=1"`
	Version              int                    `json:"version" binding:"required,min=1"`
}

// Apply copies the request onto an existing order.
func (r *UpdatePurchaseOrderRequest) Apply(po *purchasing.PurchaseOrder) {
	po.SupplierID = r.SupplierID
	po.Status = purchasing.Status(r.Status)
	po.ExpectedDeliveryDate = r.ExpectedDeliveryDate
	po.Notes = r.Notes
	po.Lines = toLines(r.Lines)
	po.Version = r.Version
}

func toLines(dtos []PurchaseOrderLineDTO) []purchasing.Line {
	lines := make([]purchasing.Line, 0, len(dtos))
	for _, l := range dtos {
		lines = append(lines, purchasing.Line{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			BatchNumber: l.BatchNumber,
			ExpiryDate:  l.ExpiryDate,
		})
	}
	return lines
}

// PurchaseOrderListQuery extends the common query with order filters.
type PurchaseOrderListQuery struct {
	ListQuery
	SupplierID string `form:"supplierId"`
	Status     string `form:"status"`
}

// ToFilter converts query parameters to the purchase order filter.
func (q *PurchaseOrderListQuery) ToFilter() (purchasing.ListFilter, error) {
	filter := purchasing.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		Status:     purchasing.Status(q.Status),
	}

	if q.SupplierID != "" {
		supplierID, err := id.Parse(q.SupplierID)
		if err != nil {
			return filter, err
		}
		filter.SupplierID = &supplierID
	}

	return filter, nil
}
