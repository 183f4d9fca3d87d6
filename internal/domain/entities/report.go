package entities

import "github.com/shopspring/decimal"

// CategoryCount is the number of products in a category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	Stock int64  `json:"stock"`
}

// MonthlyRevenue is completed order revenue for one calendar month (YYYY-MM).
type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// InventorySummary is the stock side of a report and the input to AI summaries.
type InventorySummary struct {
	TotalProducts   int64           `json:"totalProducts"`
	TotalStock      int64           `json:"totalStock"`
	LowStockCount   int64           `json:"lowStockCount"`
	OutOfStockCount int64           `json:"outOfStockCount"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
	TopCategories   []string        `json:"topCategories"`
}

// ReportSummary is the analytics page payload.
type ReportSummary struct {
	InventorySummary
	CategoryBreakdown []CategoryCount  `json:"categoryBreakdown"`
	MonthlyRevenue    []MonthlyRevenue `json:"monthlyRevenue"`
	TotalRevenue      decimal.Decimal  `json:"totalRevenue"`
	CompletedOrders   int64            `json:"completedOrders"`
	AverageOrderValue decimal.Decimal  `json:"averageOrderValue"`
}
