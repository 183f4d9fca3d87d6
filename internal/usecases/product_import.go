package usecases

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/utils"
)

const utf8BOM = "\uFEFF"

// ParseImportCSV reads a header row followed by records. Values are keyed by
// the trimmed, lowercased header; short records leave later columns empty.
func ParseImportCSV(r io.Reader) ([]entities.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, domainerrors.BadRequest("Invalid CSV file")
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []entities.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domainerrors.BadRequest("Invalid CSV file")
		}
		if isBlankRecord(record) {
			continue
		}
		row := make(entities.ImportRow, len(header))
		for i, key := range header {
			if key == "" || i >= len(record) {
				continue
			}
			row[key] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// BulkImport normalizes rows and inserts them in batches. Rows whose unique
// keys already exist are skipped, not failed.
func (u *ProductUsecase) BulkImport(ctx context.Context, rows []entities.ImportRow) (*entities.ImportResult, error) {
	now := u.now().UTC()

	products := make([]*entities.Product, 0, len(rows))
	invalid := 0
	for _, row := range rows {
		p := normalizeImportRow(row)
		if p == nil {
			invalid++
			continue
		}
		p.ID = utils.GenerateUUIDv7()
		p.CreatedAt = now
		p.UpdatedAt = now
		products = append(products, p)
	}
	if len(products) == 0 {
		u.importStats.Record(0, 0, invalid)
		return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, MsgNothingToImport, domainerrors.ErrNothingToImport)
	}

	var inserted int
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.resolveCategories(txCtx, products); err != nil {
			return err
		}
		n, err := u.productRepo.BulkCreate(txCtx, products)
		inserted = n
		return err
	})
	if err != nil {
		return nil, err
	}

	skipped := len(products) - inserted
	u.importStats.Record(inserted, skipped, invalid)
	logger.Info(ctx, "Products imported",
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped),
		zap.Int("invalid", invalid),
	)

	return &entities.ImportResult{
		Success: true,
		Count:   inserted,
		Skipped: skipped,
		Invalid: invalid,
		Message: fmt.Sprintf("%d products imported successfully", inserted),
	}, nil
}

// resolveCategories creates each missing category once and points the
// products at it.
func (u *ProductUsecase) resolveCategories(ctx context.Context, products []*entities.Product) error {
	var names []string
	seen := make(map[string]bool)
	for _, p := range products {
		if !seen[p.CategoryName] {
			seen[p.CategoryName] = true
			names = append(names, p.CategoryName)
		}
	}

	existing, err := u.categoryRepo.FindByNames(ctx, names)
	if err != nil {
		return err
	}
	ids := make(map[string]*entities.Category, len(names))
	for _, c := range existing {
		ids[c.Name] = c
	}
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		c, err := u.findOrCreateCategory(ctx, name)
		if err != nil {
			return err
		}
		ids[name] = c
	}

	for _, p := range products {
		p.CategoryID = ids[p.CategoryName].ID
	}
	return nil
}

// importColumns mirrors the products and categories column sizes.
type importColumns struct {
	Name     string `validate:"required,max=200"`
	Category string `validate:"max=100"`
	Unit     string `validate:"max=20"`
	SKU      string `validate:"max=64"`
	Barcode  string `validate:"max=64"`
	Supplier string `validate:"max=200"`
	Location string `validate:"max=200"`
}

var (
	importValidator = validator.New()

	// NUMERIC(12,2) and INTEGER bounds.
	maxMoney    = decimal.New(1, 10)
	minInt32Dec = decimal.NewFromInt(math.MinInt32)
	maxInt32Dec = decimal.NewFromInt(math.MaxInt32)
)

// normalizeImportRow returns nil for rows without a name or with values the
// products table cannot hold.
func normalizeImportRow(row entities.ImportRow) *entities.Product {
	name := strings.ToUpper(strings.TrimSpace(row["name"]))
	if name == "" {
		return nil
	}

	stock, ok := parseInt(row["stock"])
	if !ok {
		return nil
	}
	minStock, ok := parseInt(row["minstock"])
	if !ok {
		return nil
	}

	p := &entities.Product{
		Name:         name,
		CategoryName: strings.TrimSpace(row["category"]),
		Price:        parseDecimal(row["price"]),
		CostPrice:    parseDecimal(row["costprice"]),
		Stock:        stock,
		MinStock:     minStock,
		Unit:         strings.TrimSpace(row["unit"]),
		SKU:          optionalString(row["sku"]),
		Barcode:      optionalString(row["barcode"]),
		Supplier:     optionalString(row["supplier"]),
		Location:     optionalString(row["location"]),
		Description:  optionalString(row["description"]),
	}
	if p.CategoryName == "" {
		p.CategoryName = entities.DefaultCategoryName
	}
	if p.Unit == "" {
		p.Unit = entities.DefaultUnit
	}
	if !fitsColumns(p) {
		return nil
	}
	p.RefreshStatus()
	return p
}

func fitsColumns(p *entities.Product) bool {
	if p.Price.Round(2).Abs().GreaterThanOrEqual(maxMoney) || p.CostPrice.Round(2).Abs().GreaterThanOrEqual(maxMoney) {
		return false
	}
	err := importValidator.Struct(importColumns{
		Name:     p.Name,
		Category: p.CategoryName,
		Unit:     p.Unit,
		SKU:      p.SKU.String,
		Barcode:  p.Barcode.String,
		Supplier: p.Supplier.String,
		Location: p.Location.String,
	})
	return err == nil
}

func parseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseInt accepts "12", "12.0" and "1e3"; unparseable input is 0. ok is
// false when the value does not fit an INTEGER column.
func parseInt(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseInt(v, 10, 32); err == nil {
		return int(n), true
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, true
	}
	d = d.Truncate(0)
	if d.LessThan(minInt32Dec) || d.GreaterThan(maxInt32Dec) {
		return 0, false
	}
	return int(d.IntPart()), true
}
