package types

import "testing"

func TestPaymentMethodIsValid(t *testing.T) {
	tests := []struct {
		method PaymentMethod
		want   bool
	}{
		{PaymentCash, true},
		{PaymentMobileMoney, true},
		{PaymentCard, true},
		{PaymentRefund, false}, // reserved for the refund engine
		{PaymentMethod("cheque"), false},
		{PaymentMethod(""), false},
	}

	for _, tt := range tests {
		if got := tt.method.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.method, got, tt.want)
		}
	}
}

func TestValidatePaymentReference(t *testing.T) {
	tests := []struct {
		name      string
		method    PaymentMethod
		reference string
		want      bool
	}{
		{"cash needs no reference", PaymentCash, "", true},
		{"cash ignores reference", PaymentCash, "whatever", true},
		{"mobile money valid code", PaymentMobileMoney, "MM12345678", true},
		{"mobile money short code", PaymentMobileMoney, "MM123", false},
		{"mobile money empty", PaymentMobileMoney, "", false},
		{"whitespace is not a reference", PaymentCard, "             ", false},
		{"card with trailing spaces", PaymentCard, "  AUTH-99887766  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePaymentReference(tt.method, tt.reference); got != tt.want {
				t.Errorf("ValidatePaymentReference(%q, %q) = %v, want %v",
					tt.method, tt.reference, got, tt.want)
			}
		})
	}
}
