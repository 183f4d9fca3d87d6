package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/infrastructure/models"
	"stock-tracker.backend/pkg/utils"
)

const bulkInsertBatchSize = 200

var productSortColumns = map[string]string{
	entities.ProductSortName:      "products.name",
	entities.ProductSortPrice:     "products.price",
	entities.ProductSortStock:     "products.stock",
	entities.ProductSortCreatedAt: "products.created_at",
}

// ProductRepository implements ProductRepository
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product. A taken SKU or barcode yields ErrDuplicateSKU.
func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	m := toProductModel(product)
	return duplicate(GetDB(ctx, r.db).Omit("Category").Create(m).Error, domainerrors.ErrDuplicateSKU)
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	var m models.Product
	if err := GetDB(ctx, r.db).Preload("Category").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return toProductEntity(&m), nil
}

// Update writes every mutable column of the product.
func (r *ProductRepository) Update(ctx context.Context, product *entities.Product) error {
	m := toProductModel(product)
	result := GetDB(ctx, r.db).Model(&models.Product{}).Where("id = ?", product.ID).
		Select("name", "sku", "barcode", "category_id", "price", "cost_price", "stock",
			"min_stock", "unit", "supplier", "description", "location", "status", "updated_at").
		Updates(m)
	if result.Error != nil {
		return duplicate(result.Error, domainerrors.ErrDuplicateSKU)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List applies the filter, sort and pagination. Limit 0 returns every row.
func (r *ProductRepository) List(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error) {
	db := GetDB(ctx, r.db)

	var totalCount int64
	if err := applyProductFilter(db.Model(&models.Product{}), filter).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	query := applyProductFilter(db.Model(&models.Product{}), filter)

	column, ok := productSortColumns[filter.Sort]
	if !ok {
		column = productSortColumns[entities.ProductSortCreatedAt]
	}
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: column, Raw: true}, Desc: filter.Desc}).
		Order("products.id ASC")

	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var ms []models.Product
	if err := query.Preload("Category").Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Product, 0, len(ms))
	for i := range ms {
		out = append(out, toProductEntity(&ms[i]))
	}
	return out, totalCount, nil
}

func applyProductFilter(query *gorm.DB, filter entities.ProductFilter) *gorm.DB {
	query = query.Joins("JOIN categories ON categories.id = products.category_id")

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(products.name) LIKE ? OR LOWER(categories.name) LIKE ? OR LOWER(COALESCE(products.sku, '')) LIKE ?)", like, like, like)
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		query = query.Where("LOWER(categories.name) = ?", strings.ToLower(c))
	}
	if filter.Status != nil {
		query = query.Where("products.status = ?", string(*filter.Status))
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.MinStock != nil {
		query = query.Where("products.stock >= ?", *filter.MinStock)
	}
	if filter.MaxStock != nil {
		query = query.Where("products.stock <= ?", *filter.MaxStock)
	}
	return query
}

// BulkCreate inserts in batches and skips rows that violate a unique
// constraint. The returned count is rows actually inserted.
func (r *ProductRepository) BulkCreate(ctx context.Context, products []*entities.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	ms := make([]*models.Product, 0, len(products))
	for _, p := range products {
		ms = append(ms, toProductModel(p))
	}

	result := GetDB(ctx, r.db).Omit("Category").
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ms, bulkInsertBatchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// ListAttention returns low and out of stock products, emptiest first.
func (r *ProductRepository) ListAttention(ctx context.Context, limit int) ([]*entities.Product, error) {
	query := GetDB(ctx, r.db).Preload("Category").
		Where("status IN ?", []string{string(entities.ProductStatusLowStock), string(entities.ProductStatusOutOfStock)}).
		Order("stock ASC").Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var ms []models.Product
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Product, 0, len(ms))
	for i := range ms {
		out = append(out, toProductEntity(&ms[i]))
	}
	return out, nil
}

// InventorySummary aggregates counts and stock value in one query.
// TopCategories is left for the caller to fill from CategoryBreakdown.
func (r *ProductRepository) InventorySummary(ctx context.Context) (*entities.InventorySummary, error) {
	var row struct {
		TotalProducts   int64
		TotalStock      int64
		LowStockCount   int64
		OutOfStockCount int64
		TotalStockValue decimal.NullDecimal
	}
	err := GetDB(ctx, r.db).Model(&models.Product{}).Select(
		"COUNT(*) AS total_products, "+
			"COALESCE(SUM(stock), 0) AS total_stock, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS low_stock_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS out_of_stock_count, "+
			"SUM(cost_price * stock) AS total_stock_value",
		string(entities.ProductStatusLowStock), string(entities.ProductStatusOutOfStock),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	value := decimal.Zero
	if row.TotalStockValue.Valid {
		value = row.TotalStockValue.Decimal.Round(2)
	}
	return &entities.InventorySummary{
		TotalProducts:   row.TotalProducts,
		TotalStock:      row.TotalStock,
		LowStockCount:   row.LowStockCount,
		OutOfStockCount: row.OutOfStockCount,
		TotalStockValue: value,
	}, nil
}

// CategoryBreakdown counts products per category, largest first, ties by name.
func (r *ProductRepository) CategoryBreakdown(ctx context.Context) ([]entities.CategoryCount, error) {
	var rows []entities.CategoryCount
	err := GetDB(ctx, r.db).Model(&models.Product{}).
		Select("categories.name AS name, COUNT(products.id) AS count, COALESCE(SUM(products.stock), 0) AS stock").
		Joins("JOIN categories ON categories.id = products.category_id").
		Group("categories.name").
		Order("count DESC").Order("categories.name ASC").
		Scan(&rows).Error
	return rows, err
}

func toProductModel(p *entities.Product) *models.Product {
	return &models.Product{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		CostPrice:   p.CostPrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Supplier:    p.Supplier,
		Description: p.Description,
		Location:    p.Location,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductEntity(m *models.Product) *entities.Product {
	return &entities.Product{
		ID:           m.ID,
		Name:         m.Name,
		SKU:          m.SKU,
		Barcode:      m.Barcode,
		CategoryID:   m.CategoryID,
		CategoryName: m.Category.Name,
		Price:        m.Price,
		CostPrice:    m.CostPrice,
		Stock:        m.Stock,
		MinStock:     m.MinStock,
		Unit:         m.Unit,
		Supplier:     m.Supplier,
		Description:  m.Description,
		Location:     m.Location,
		Status:       entities.ProductStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
