// Package supplier provides the supplier catalog consumed by purchase orders.
package supplier

import (
	"context"

	"pharmapos/internal/core/entity"
)

// Supplier represents a wholesale supplier of pharmacy stock.
type Supplier struct {
	entity.Catalog

	ContactPerson string `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         string `db:"phone" json:"phone,omitempty"`
	Email         string `db:"email" json:"email,omitempty"`
	Address       string `db:"address" json:"address,omitempty"`
}

// NewSupplier creates a new Supplier.
func NewSupplier(name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog("", name),
	}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	return s.Catalog.Validate(ctx)
}
