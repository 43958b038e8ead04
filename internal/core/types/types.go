// Package types provides common type aliases and utilities.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromInt creates a Money value from an integer.
func NewMoneyFromInt(n int64) Money {
	return decimal.NewFromInt(n)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// PaymentMethod identifies how a sale was settled.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentCard        PaymentMethod = "card"
	// PaymentRefund marks transactions created by the refund engine.
	PaymentRefund PaymentMethod = "refund"
)

// IsValid reports whether the payment method is one a cashier may submit.
// Refund is reserved for system-generated refund transactions.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentMobileMoney, PaymentCard:
		return true
	}
	return false
}

// minPaymentReferenceLen mirrors the mobile-money confirmation code length.
const minPaymentReferenceLen = 10

// ValidatePaymentReference enforces the non-cash reference rule:
// any payment other than cash must carry a reference of at least 10 characters.
func ValidatePaymentReference(method PaymentMethod, reference string) bool {
	if method == PaymentCash {
		return true
	}
	return len(strings.TrimSpace(reference)) >= minPaymentReferenceLen
}
