// Package product provides the pharmacy product catalog.
// A product row is the authoritative current-quantity store; every
// inventory-affecting operation reads and mutates it.
package product

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/entity"
	"pharmapos/internal/core/types"
)

// Product represents a stocked pharmacy item.
type Product struct {
	entity.Catalog

	// SKU is the stock keeping unit (unique)
	SKU string `db:"sku" json:"sku"`

	// Barcode is the item barcode, EAN-13 or similar (unique)
	Barcode string `db:"barcode" json:"barcode"`

	// Category groups products for reporting (e.g. "Analgesics")
	Category string `db:"category" json:"category"`

	// UnitPrice is the retail price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Quantity is the current stock level. Never negative.
	Quantity int64 `db:"quantity" json:"quantity"`

	// BatchNumber is the manufacturer batch currently on the shelf
	BatchNumber string `db:"batch_number" json:"batchNumber,omitempty"`

	// ExpiryDate of the current batch
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	// SupplierName is a free-text reference to the usual supplier
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// ReorderLevel triggers low-stock listings when quantity falls below it
	ReorderLevel int64 `db:"reorder_level" json:"reorderLevel"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(sku, barcode, name string, unitPrice types.Money) *Product {
	return &Product{
		Catalog:   entity.NewCatalog("", name),
		SKU:       sku,
		Barcode:   barcode,
		UnitPrice: unitPrice,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}

	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	return nil
}

// IsExpired reports whether the current batch has passed its expiry date.
func (p *Product) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}

// IsLowStock reports whether quantity has fallen to the reorder level.
func (p *Product) IsLowStock() bool {
	return p.ReorderLevel > 0 && p.Quantity <= p.ReorderLevel
}
