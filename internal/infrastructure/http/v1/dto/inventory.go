package dto

import (
	"pharmapos/internal/core/id"
)

// AdjustStockRequest corrects a stock count by a signed delta.
type AdjustStockRequest struct {
	ProductID id.ID  `json:"productId" binding:"required"`
	Delta     int64  `json:"delta" binding:"required"`
	Notes     string `json:"notes"`
}

// DisposeStockRequest writes off expired or damaged stock.
type DisposeStockRequest struct {
	ProductID id.ID  `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
	Reason    string `json:"reason" binding:"required"`
}
