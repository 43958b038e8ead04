// Package ledger provides the append-only stock movement journal.
// Every stock mutation in the system writes here; entries are never
// updated or deleted.
package ledger

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
)

// EntryType classifies a stock movement. The type is advisory; the signed
// Quantity alone determines the stock effect.
type EntryType string

const (
	// EntryInflow records stock arriving (PO receipt, refund restock).
	EntryInflow EntryType = "inflow"

	// EntryOutflow records stock leaving (sale, disposal).
	EntryOutflow EntryType = "outflow"

	// EntryAdjustment records a manual correction in either direction.
	EntryAdjustment EntryType = "adjustment"
)

// IsValid reports whether the entry type is known.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryInflow, EntryOutflow, EntryAdjustment:
		return true
	}
	return false
}

// Entry is one immutable row of the stock ledger.
// Product and user names are snapshotted so the trail survives renames
// and soft deletes.
type Entry struct {
	ID          id.ID     `db:"id" json:"id"`
	ProductID   id.ID     `db:"product_id" json:"productId"`
	ProductName string    `db:"product_name" json:"productName"`
	Type        EntryType `db:"entry_type" json:"type"`

	// Quantity is signed: positive adds stock, negative removes it.
	Quantity int64 `db:"quantity" json:"quantity"`

	// Reference ties the entry to its source document number
	// (transaction, purchase order, refund).
	Reference string `db:"reference" json:"reference,omitempty"`

	UserID   id.ID  `db:"user_id" json:"userId"`
	UserName string `db:"user_name" json:"userName"`

	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks the entry before append.
func (e *Entry) Validate(ctx context.Context) error {
	if id.IsNil(e.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}

	if !e.Type.IsValid() {
		return apperror.NewValidation("unknown ledger entry type").
			WithDetail("field", "type").
			WithDetail("value", string(e.Type))
	}

	if e.Quantity == 0 {
		return apperror.NewValidation("quantity cannot be zero").
			WithDetail("field", "quantity")
	}

	// Inflow and outflow carry a fixed sign; adjustments go either way.
	if e.Type == EntryInflow && e.Quantity < 0 {
		return apperror.NewValidation("inflow quantity must be positive").
			WithDetail("quantity", e.Quantity)
	}
	if e.Type == EntryOutflow && e.Quantity > 0 {
		return apperror.NewValidation("outflow quantity must be negative").
			WithDetail("quantity", e.Quantity)
	}

	if id.IsNil(e.UserID) {
		return apperror.NewValidation("acting user is required").
			WithDetail("field", "userId")
	}

	return nil
}
