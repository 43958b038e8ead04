package dto

import (
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain/ledger"
)

// LedgerListQuery extends the common query with ledger filters.
type LedgerListQuery struct {
	ListQuery
	ProductID string `form:"productId"`
	Type      string `form:"type"`
	Reference string `form:"reference"`
}

// ToFilter converts query parameters to the ledger filter.
func (q *LedgerListQuery) ToFilter() (ledger.ListFilter, error) {
	filter := ledger.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		Type:       ledger.EntryType(q.Type),
		Reference:  q.Reference,
	}

	if q.ProductID != "" {
		productID, err := id.Parse(q.ProductID)
		if err != nil {
			return filter, err
		}
		filter.ProductID = &productID
	}

	return filter, nil
}
