package ledger

import (
	"context"
	"testing"

	"pharmapos/internal/core/id"
)

func validEntry(entryType EntryType, quantity int64) Entry {
	return Entry{
		ID:          id.New(),
		ProductID:   id.New(),
		ProductName: "Paracetamol 500mg",
		Type:        entryType,
		Quantity:    quantity,
		UserID:      id.New(),
		UserName:    "Jane Doe",
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(e *Entry)
		wantErr bool
	}{
		{
			name:   "valid inflow",
			modify: func(e *Entry) {},
		},
		{
			name: "valid outflow",
			modify: func(e *Entry) {
				e.Type = EntryOutflow
				e.Quantity = -3
			},
		},
		{
			name: "valid negative adjustment",
			modify: func(e *Entry) {
				e.Type = EntryAdjustment
				e.Quantity = -2
			},
		},
		{
			name: "valid positive adjustment",
			modify: func(e *Entry) {
				e.Type = EntryAdjustment
				e.Quantity = 2
			},
		},
		{
			name:    "missing product",
			modify:  func(e *Entry) { e.ProductID = id.Nil() },
			wantErr: true,
		},
		{
			name:    "unknown type",
			modify:  func(e *Entry) { e.Type = "transfer" },
			wantErr: true,
		},
		{
			name:    "zero quantity",
			modify:  func(e *Entry) { e.Quantity = 0 },
			wantErr: true,
		},
		{
			name:    "negative inflow",
			modify:  func(e *Entry) { e.Quantity = -5 },
			wantErr: true,
		},
		{
			name: "positive outflow",
			modify: func(e *Entry) {
				e.Type = EntryOutflow
				e.Quantity = 5
			},
			wantErr: true,
		},
		{
			name:    "missing user",
			modify:  func(e *Entry) { e.UserID = id.Nil() },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry(EntryInflow, 5)
			tt.modify(&e)

			err := e.Validate(context.Background())
			if tt.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
