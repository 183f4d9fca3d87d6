package entities

import "github.com/shopspring/decimal"

type GenerateDescriptionInput struct {
	Name     string `json:"name" binding:"required,max=200"`
	Category string `json:"category" binding:"max=100"`
}

type GenerateEmailInput struct {
	ProductName  string `json:"productName" binding:"required,max=200"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	SupplierName string `json:"supplierName" binding:"max=200"`
	CurrentStock int    `json:"currentStock" binding:"min=0"`
	Unit         string `json:"unit" binding:"max=20"`
}

// SummarizeReportInput carries report figures. An empty body means the
// figures are computed from current inventory.
type SummarizeReportInput struct {
	TotalProducts   *int64           `json:"totalProducts"`
	TotalStock      *int64           `json:"totalStock"`
	LowStockCount   *int64           `json:"lowStockCount"`
	OutOfStockCount *int64           `json:"outOfStockCount"`
	TotalStockValue *decimal.Decimal `json:"totalStockValue"`
	TopCategories   []string         `json:"topCategories"`
}

// IsEmpty reports whether no figure was supplied.
func (in *SummarizeReportInput) IsEmpty() bool {
	return in == nil || (in.TotalProducts == nil && in.TotalStock == nil &&
		in.LowStockCount == nil && in.OutOfStockCount == nil &&
		in.TotalStockValue == nil && len(in.TopCategories) == 0)
}

// Summary fills missing figures with zero values.
func (in *SummarizeReportInput) Summary() InventorySummary {
	var s InventorySummary
	if in == nil {
		return s
	}
	if in.TotalProducts != nil {
		s.TotalProducts = *in.TotalProducts
	}
	if in.TotalStock != nil {
		s.TotalStock = *in.TotalStock
	}
	if in.LowStockCount != nil {
		s.LowStockCount = *in.LowStockCount
	}
	if in.OutOfStockCount != nil {
		s.OutOfStockCount = *in.OutOfStockCount
	}
	if in.TotalStockValue != nil {
		s.TotalStockValue = *in.TotalStockValue
	}
	s.TopCategories = in.TopCategories
	return s
}
