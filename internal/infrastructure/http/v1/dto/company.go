package dto

import (
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/company"
)

// UpdateCompanyRequest for editing the company profile.
type UpdateCompanyRequest struct {
	Name               string `json:"name" binding:"required"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"registrationNumber"`
	ReceiptFooter      string `json:"receiptFooter"`
	TaxRate            string `json:"taxRate"`
	Version            int    `json:"version" binding:"required,min=1"`
}

// Apply copies the request onto the existing profile.
func (r *UpdateCompanyRequest) Apply(p *company.Profile) error {
	taxRate := types.ZeroMoney()
	if r.TaxRate != "" {
		parsed, err := types.NewMoneyFromString(r.TaxRate)
		if err != nil {
			return err
		}
		taxRate = parsed
	}

	p.Name = r.Name
	p.Address = r.Address
	p.Phone = r.Phone
	p.Email = r.Email
	p.RegistrationNumber = r.RegistrationNumber
	p.ReceiptFooter = r.ReceiptFooter
	p.TaxRate = taxRate
	p.Version = r.Version
	return nil
}
