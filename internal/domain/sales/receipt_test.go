package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pharmapos/internal/core/entity"
	"pharmapos/internal/domain/company"
)

func TestBuildReceipt(t *testing.T) {
	txn := &Transaction{
		Document:    entity.NewDocument(),
		CashierName: "Jane Doe",
	}
	txn.Number = "TXN-20260315143045-ABCD"

	profile := company.DefaultProfile()
	profile.Name = "Corner Pharmacy"
	profile.Address = "12 Main St"
	profile.Phone = "+256-700-000000"
	profile.RegistrationNumber = "REG-42"
	profile.ReceiptFooter = "No returns after 7 days"

	r := BuildReceipt(txn, profile)

	assert.Equal(t, "Corner Pharmacy", r.CompanyName)
	assert.Equal(t, "12 Main St", r.CompanyAddress)
	assert.Equal(t, "+256-700-000000", r.CompanyPhone)
	assert.Equal(t, "REG-42", r.RegistrationNumber)
	assert.Equal(t, "No returns after 7 days", r.Footer)
	assert.Equal(t, "Jane Doe", r.Cashier)
	assert.Same(t, txn, r.Transaction)
	assert.NotEmpty(t, r.DateText)
}

func TestBuildReceipt_NilProfile(t *testing.T) {
	txn := &Transaction{
		Document:    entity.NewDocument(),
		CashierName: "Jane Doe",
	}

	r := BuildReceipt(txn, nil)

	assert.Empty(t, r.CompanyName)
	assert.Equal(t, "Jane Doe", r.Cashier)
}
