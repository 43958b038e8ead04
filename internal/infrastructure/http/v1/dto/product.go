package dto

import (
	"time"

	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/catalogs/product"
)

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	SKU          string     `json:"sku" binding:"required"`
	Barcode      string     `json:"barcode"`
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category"`
	UnitPrice    string     `json:"unitPrice" binding:"required"`
	Quantity     int64      `json:"quantity"`
	BatchNumber  string     `json:"batchNumber"`
	ExpiryDate   *time.Time `json:"expiryDate"`
	SupplierName string     `json:"supplierName"`
	ReorderLevel int64      `json:"reorderLevel"`
}

// ToModel converts the request to a domain product.
func (r *CreateProductRequest) ToModel() (*product.Product, error) {
	price, err := types.NewMoneyFromString(r.UnitPrice)
	if err != nil {
		return nil, err
	}

	p := product.NewProduct(r.SKU, r.Barcode, r.Name, price)
	p.Category = r.Category
	p.Quantity = r.Quantity
	p.BatchNumber = r.BatchNumber
	p.ExpiryDate = r.ExpiryDate
	p.SupplierName = r.SupplierName
	p.ReorderLevel = r.ReorderLevel
	return p, nil
}

// UpdateProductRequest for updating products. Quantity is deliberately
// absent: stock changes go through sales, receipts and adjustments.
type UpdateProductRequest struct {
	SKU          string     `json:"sku" binding:"required"`
	Barcode      string     `json:"barcode"`
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category"`
	UnitPrice    string     `json:"unitPrice" binding:"required"`
	BatchNumber  string     `json:"batchNumber"`
	ExpiryDate   *time.Time `json:"expiryDate"`
	SupplierName string     `json:"supplierName"`
	ReorderLevel int64      `json:"reorderLevel"`
	Version      int        `json:"version" binding:"required,min=1"`
}

// Apply copies the request onto an existing product.
func (r *UpdateProductRequest) Apply(p *product.Product) error {
	price, err := types.NewMoneyFromString(r.UnitPrice)
	if err != nil {
		return err
	}

	p.SKU = r.SKU
	p.Barcode = r.Barcode
	p.Name = r.Name
	p.Category = r.Category
	p.UnitPrice = price
	p.BatchNumber = r.BatchNumber
	p.ExpiryDate = r.ExpiryDate
	p.SupplierName = r.SupplierName
	p.ReorderLevel = r.ReorderLevel
	p.Version = r.Version
	return nil
}

// ProductListQuery extends the common query with product filters.
type ProductListQuery struct {
	ListQuery
	Category     string `form:"category"`
	LowStockOnly bool   `form:"lowStockOnly"`
}

// ToFilter converts query parameters to the product filter.
func (q *ProductListQuery) ToFilter() product.ListFilter {
	return product.ListFilter{
		ListFilter:   q.ListQuery.ToFilter(),
		Category:     q.Category,
		LowStockOnly: q.LowStockOnly,
	}
}
