package sales

import (
	"pharmapos/internal/domain/company"
)

// Receipt is the printable projection of a completed sale. It is assembled
// on demand from the transaction and the company profile; nothing here is
// persisted.
type Receipt struct {
	// Company header
	CompanyName        string `json:"companyName"`
	CompanyAddress     string `json:"companyAddress,omitempty"`
	CompanyPhone       string `json:"companyPhone,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`

	Transaction *Transaction `json:"transaction"`

	// Formatted fields for direct printing
	Cashier  string `json:"cashier"`
	DateText string `json:"dateText"`

	Footer string `json:"footer,omitempty"`
}

// BuildReceipt assembles the receipt projection for a transaction.
func BuildReceipt(t *Transaction, profile *company.Profile) *Receipt {
	r := &Receipt{
		Transaction: t,
		Cashier:     t.CashierName,
		DateText:    t.Date.Local().Format("02 Jan 2006 15:04"),
	}

	if profile != nil {
		r.CompanyName = profile.Name
		r.CompanyAddress = profile.Address
		r.CompanyPhone = profile.Phone
		r.RegistrationNumber = profile.RegistrationNumber
		r.Footer = profile.ReceiptFooter
	}

	return r
}
