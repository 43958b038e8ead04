// Package sales implements the point-of-sale transaction engine:
// atomic checkout and mirrored refunds.
package sales

import (
	"context"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/entity"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
)

// Line is one sold item within a transaction. Product attributes are
// snapshotted at sale time.
type Line struct {
	ID            id.ID       `db:"id" json:"id"`
	TransactionID id.ID       `db:"transaction_id" json:"-"`
	ProductID     id.ID       `db:"product_id" json:"productId"`
	ProductName   string      `db:"product_name" json:"productName"`
	SKU           string      `db:"sku" json:"sku"`
	Category      string      `db:"category" json:"category,omitempty"`
	Quantity      int64       `db:"quantity" json:"quantity"`
	UnitPrice     types.Money `db:"unit_price" json:"unitPrice"`
	Discount      types.Money `db:"discount" json:"discount"`
	Total         types.Money `db:"total" json:"total"`
}

// Transaction is a completed sale or refund document.
type Transaction struct {
	entity.Document

	CashierID   id.ID  `db:"cashier_id" json:"cashierId"`
	CashierName string `db:"cashier_name" json:"cashierName"`

	Lines []Line `db:"-" json:"lines"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Discount types.Money `db:"discount" json:"discount"`
	Tax      types.Money `db:"tax" json:"tax"`
	Total    types.Money `db:"total" json:"total"`

	PaymentMethod    types.PaymentMethod `db:"payment_method" json:"paymentMethod"`
	PaymentReference string              `db:"payment_reference" json:"paymentReference,omitempty"`

	CustomerName  string `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone,omitempty"`

	// RefundedTransactionID links a refund document to the sale it reverses.
	RefundedTransactionID *id.ID `db:"refunded_transaction_id" json:"refundedTransactionId,omitempty"`
}

// IsRefund reports whether the transaction is a refund document.
func (t *Transaction) IsRefund() bool {
	return t.RefundedTransactionID != nil
}

// Validate implements entity.Validatable.
func (t *Transaction) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	if len(t.Lines) == 0 {
		return apperror.NewEmptyCart()
	}

	if id.IsNil(t.CashierID) {
		return apperror.NewValidation("cashier is required").
			WithDetail("field", "cashierId")
	}

	return nil
}

// --- Checkout input ---

// SaleItem is one requested cart line.
type SaleItem struct {
	ProductID id.ID `json:"productId"`
	Quantity  int64 `json:"quantity"`

	// Discount is an absolute amount off this line (not a percentage).
	Discount types.Money `json:"discount"`
}

// SaleInput is the cashier's checkout request.
type SaleInput struct {
	CashierID        id.ID               `json:"cashierId"`
	Items            []SaleItem          `json:"items"`
	Discount         types.Money         `json:"discount"`
	PaymentMethod    types.PaymentMethod `json:"paymentMethod"`
	PaymentReference string              `json:"paymentReference"`
	CustomerName     string              `json:"customerName"`
	CustomerPhone    string              `json:"customerPhone"`
	Notes            string              `json:"notes"`
}

// Validate checks the request shape before any database work.
func (in *SaleInput) Validate(ctx context.Context) error {
	if len(in.Items) == 0 {
		return apperror.NewEmptyCart()
	}

	for i, item := range in.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewInvalidInput("item product is required").
				WithDetail("index", i)
		}
		if item.Quantity <= 0 {
			return apperror.NewInvalidInput("item quantity must be positive").
				WithDetail("index", i).
				WithDetail("quantity", item.Quantity)
		}
		if item.Discount.IsNegative() {
			return apperror.NewInvalidInput("item discount cannot be negative").
				WithDetail("index", i)
		}
	}

	if !in.PaymentMethod.IsValid() {
		return apperror.NewInvalidInput("unknown payment method").
			WithDetail("paymentMethod", string(in.PaymentMethod))
	}

	if !types.ValidatePaymentReference(in.PaymentMethod, in.PaymentReference) {
		return apperror.NewInvalidInput("payment reference is required for non-cash payments").
			WithDetail("paymentMethod", string(in.PaymentMethod))
	}

	if in.Discount.IsNegative() {
		return apperror.NewInvalidInput("discount cannot be negative")
	}

	return nil
}
