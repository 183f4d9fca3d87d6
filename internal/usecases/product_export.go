package usecases

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/pkg/utils"
)

var exportHeader = []string{"Name", "Category", "Selling Price", "Cost Price", "Stock", "Status", "Profit Margin"}

var importTemplate = [][]string{
	{"name", "category", "costPrice", "price", "stock", "minStock", "unit", "sku", "barcode", "supplier", "location", "description"},
	{"Claw Hammer", "Tools", "8.50", "14.99", "40", "10", "pcs", "HAM-001", "", "Acme Supply", "Aisle 3", "16oz steel claw hammer"},
}

// ExportCSV is a rendered CSV file.
type ExportCSV struct {
	Filename string
	Content  []byte
}

// ExportProducts renders every product matching filter.
func (u *ProductUsecase) ExportProducts(ctx context.Context, filter entities.ProductFilter) (*ExportCSV, error) {
	products, _, err := u.productRepo.List(ctx, filter, utils.PaginationParams{Page: 1})
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(products)+1)
	records = append(records, exportHeader)
	for _, p := range products {
		records = append(records, []string{
			p.Name,
			p.CategoryName,
			p.Price.StringFixed(2),
			p.CostPrice.StringFixed(2),
			strconv.Itoa(p.Stock),
			p.Status.Label(),
			p.ProfitMargin(),
		})
	}

	content, err := writeCSV(records)
	if err != nil {
		return nil, err
	}
	return &ExportCSV{
		Filename: "products_" + u.now().UTC().Format("2006-01-02") + ".csv",
		Content:  content,
	}, nil
}

// ImportTemplate is a sample file for bulk import.
func (u *ProductUsecase) ImportTemplate() (*ExportCSV, error) {
	content, err := writeCSV(importTemplate)
	if err != nil {
		return nil, err
	}
	return &ExportCSV{Filename: "products_import_template.csv", Content: content}, nil
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
