package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// ProductStatus is derived from stock levels, never set directly.
type ProductStatus string

const (
	ProductStatusInStock    ProductStatus = "IN_STOCK"
	ProductStatusLowStock   ProductStatus = "LOW_STOCK"
	ProductStatusOutOfStock ProductStatus = "OUT_OF_STOCK"
)

const (
	DefaultCategoryName = "General"
	DefaultUnit         = "pcs"
)

// DeriveProductStatus maps stock against the product's minimum stock.
// stock <= 0 is out of stock, stock <= minStock is low stock.
func DeriveProductStatus(stock, minStock int) ProductStatus {
	switch {
	case stock <= 0:
		return ProductStatusOutOfStock
	case stock <= minStock:
		return ProductStatusLowStock
	default:
		return ProductStatusInStock
	}
}

// Label is the human readable status.
func (s ProductStatus) Label() string {
	switch s {
	case ProductStatusInStock:
		return "In Stock"
	case ProductStatusLowStock:
		return "Low Stock"
	case ProductStatusOutOfStock:
		return "Out of Stock"
	}
	return string(s)
}

// NeedsAttention is true for low and out of stock products.
func (s ProductStatus) NeedsAttention() bool {
	return s == ProductStatusLowStock || s == ProductStatusOutOfStock
}

// ParseProductStatus accepts the enum value or its label, case-insensitively.
func ParseProductStatus(v string) (ProductStatus, bool) {
	norm := strings.ToUpper(strings.TrimSpace(v))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "IN_STOCK":
		return ProductStatusInStock, true
	case "LOW_STOCK":
		return ProductStatusLowStock, true
	case "OUT_OF_STOCK":
		return ProductStatusOutOfStock, true
	}
	return "", false
}

// Category groups products by name.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProductCount int64     `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Product represents a stocked item
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          null.String     `json:"sku"`
	Barcode      null.String     `json:"barcode"`
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"minStock"`
	Unit         string          `json:"unit"`
	Supplier     null.String     `json:"supplier"`
	Description  null.String     `json:"description"`
	Location     null.String     `json:"location"`
	Status       ProductStatus   `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// RefreshStatus recomputes Status from Stock and MinStock.
func (p *Product) RefreshStatus() {
	p.Status = DeriveProductStatus(p.Stock, p.MinStock)
}

var hundred = decimal.NewFromInt(100)

// ProfitMargin is the markup over cost as "12.5%", or "N/A" without a cost.
func (p *Product) ProfitMargin() string {
	if !p.CostPrice.IsPositive() {
		return "N/A"
	}
	return p.Price.Sub(p.CostPrice).Div(p.CostPrice).Mul(hundred).StringFixed(1) + "%"
}

// StockValue is cost times units on hand.
func (p *Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Sort keys accepted by product listings.
const (
	ProductSortName      = "name"
	ProductSortPrice     = "price"
	ProductSortStock     = "stock"
	ProductSortCreatedAt = "createdAt"
)

// ProductFilter narrows a product listing. Nil fields are not applied.
type ProductFilter struct {
	Search   string
	Category string
	Status   *ProductStatus
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinStock *int
	MaxStock *int
	Sort     string
	Desc     bool
}

// CreateProductInput represents input for creating a product
type CreateProductInput struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Category    string           `json:"category" binding:"required,max=100"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	CostPrice   *decimal.Decimal `json:"costPrice"`
	Stock       *int             `json:"stock" binding:"required"`
	MinStock    *int             `json:"minStock" binding:"omitempty,min=0"`
	Unit        string           `json:"unit" binding:"max=20"`
	SKU         string           `json:"sku" binding:"max=64"`
	Barcode     string           `json:"barcode" binding:"max=64"`
	Supplier    string           `json:"supplier" binding:"max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Location    string           `json:"location" binding:"max=200"`
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category    *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price"`
	CostPrice   *decimal.Decimal `json:"costPrice"`
	Stock       *int             `json:"stock"`
	MinStock    *int             `json:"minStock" binding:"omitempty,min=0"`
	Unit        *string          `json:"unit" binding:"omitempty,max=20"`
	SKU         *string          `json:"sku" binding:"omitempty,max=64"`
	Barcode     *string          `json:"barcode" binding:"omitempty,max=64"`
	Supplier    *string          `json:"supplier" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Location    *string          `json:"location" binding:"omitempty,max=200"`
}

// ImportResult is returned by bulk import.
type ImportResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Skipped int    `json:"skipped"`
	Invalid int    `json:"invalid"`
	Message string `json:"message"`
}

// ImportRow is one CSV record keyed by lowercased header.
type ImportRow map[string]string
