package dto

import (
	"pharmapos/internal/domain/catalogs/supplier"
)

// CreateSupplierRequest for creating suppliers.
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// ToModel converts the request to a domain supplier.
func (r *CreateSupplierRequest) ToModel() *supplier.Supplier {
	s := supplier.NewSupplier(r.Name)
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	return s
}

// UpdateSupplierRequest for updating suppliers.
type UpdateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Version       int    `json:"version" binding:"required,min=1"`
}

// Apply copies the request onto an existing supplier.
func (r *UpdateSupplierRequest) Apply(s *supplier.Supplier) {
	s.Name = r.Name
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.Version = r.Version
}
