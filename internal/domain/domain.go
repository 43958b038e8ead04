// Package domain provides core business logic interfaces and types.
package domain

import (
	"time"

	"pharmapos/internal/core/id"
)

// Actor identifies the authenticated user performing a stock-affecting
// operation. The name is snapshotted into ledger entries and documents so the
// audit trail survives later renames or deletion of the user record.
type Actor struct {
	ID   id.ID
	Name string
}

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs substring search on searchable fields
	Search string

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// DateFrom/DateTo bound the business date
	DateFrom *time.Time
	DateTo   *time.Time

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit: 50,
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
