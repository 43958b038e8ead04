package dto

import (
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/sales"
)

// SaleItemDTO is one requested cart line.
type SaleItemDTO struct {
	ProductID id.ID       `json:"productId" binding:"required"`
	Quantity  int64       `json:"quantity" binding:"required,min=1"`
	Discount  types.Money `json:"discount"`
}

// CreateSaleRequest is the checkout payload. The cashier comes from the
// authenticated token, never from the body.
type CreateSaleRequest struct {
	Items            []SaleItemDTO `json:"items" binding:"required,min=1"`
	Discount         types.Money   `json:"discount"`
	PaymentMethod    string        `json:"paymentMethod" binding:"required"`
	PaymentReference string        `json:"paymentReference"`
	CustomerName     string        `json:"customerName"`
	CustomerPhone    string        `json:"customerPhone"`
	Notes            string        `json:"notes"`
}

// ToInput converts the request to the checkout input.
func (r *CreateSaleRequest) ToInput(cashierID id.ID) sales.SaleInput {
	items := make([]sales.SaleItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, sales.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}

	return sales.SaleInput{
		CashierID:        cashierID,
		Items:            items,
		Discount:         r.Discount,
		PaymentMethod:    types.PaymentMethod(r.PaymentMethod),
		PaymentReference: r.PaymentReference,
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		Notes:            r.Notes,
	}
}

// TransactionListQuery extends the common query with sale filters.
type TransactionListQuery struct {
	ListQuery
	CashierID     string `form:"cashierId"`
	PaymentMethod string `form:"paymentMethod"`
	RefundsOnly   bool   `form:"refundsOnly"`
}

// ToFilter converts query parameters to the transaction filter.
func (q *TransactionListQuery) ToFilter() (sales.ListFilter, error) {
	filter := sales.ListFilter{
		ListFilter:    q.ListQuery.ToFilter(),
		PaymentMethod: types.PaymentMethod(q.PaymentMethod),
		RefundsOnly:   q.RefundsOnly,
	}

	if q.CashierID != "" {
		cashierID, err := id.Parse(q.CashierID)
		if err != nil {
			return filter, err
		}
		filter.CashierID = &cashierID
	}

	return filter, nil
}
