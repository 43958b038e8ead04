// Package company provides the pharmacy profile used on receipts and for
// tax computation.
package company

import (
	"context"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/entity"
	"pharmapos/internal/core/types"
)

// Profile is the single company record. There is exactly one row; GetProfile
// creates it with defaults on first access.
type Profile struct {
	entity.BaseCatalog

	Name               string      `db:"name" json:"name"`
	Address            string      `db:"address" json:"address,omitempty"`
	Phone              string      `db:"phone" json:"phone,omitempty"`
	Email              string      `db:"email" json:"email,omitempty"`
	RegistrationNumber string      `db:"registration_number" json:"registrationNumber,omitempty"`
	ReceiptFooter      string      `db:"receipt_footer" json:"receiptFooter,omitempty"`

	// TaxRate is a percentage (e.g. 18 for 18% VAT), applied at checkout.
	TaxRate types.Money `db:"tax_rate" json:"taxRate"`
}

// DefaultProfile returns the profile created on first access.
func DefaultProfile() *Profile {
	return &Profile{
		BaseCatalog:   entity.NewBaseCatalog(),
		Name:          "Pharmacy",
		ReceiptFooter: "Thank you for your purchase",
		TaxRate:       types.ZeroMoney(),
	}
}

// Validate implements entity.Validatable.
func (p *Profile) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("company name is required").
			WithDetail("field", "name")
	}

	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(types.NewMoneyFromInt(100)) {
		return apperror.NewValidation("tax rate must be between 0 and 100").
			WithDetail("field", "taxRate")
	}

	return nil
}
