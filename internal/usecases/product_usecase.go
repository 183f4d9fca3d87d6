package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/domain/repositories"
	"stock-tracker.backend/pkg/metrics"
	"stock-tracker.backend/pkg/utils"
)

// ProductUsecase handles catalog operations
type ProductUsecase struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	uow          repositories.UnitOfWork
	importStats  *metrics.ImportMetrics
	now          func() time.Time
}

// NewProductUsecase creates a new product usecase
func NewProductUsecase(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	uow repositories.UnitOfWork,
	importStats *metrics.ImportMetrics,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		uow:          uow,
		importStats:  importStats,
		now:          time.Now,
	}
}

// ListProducts returns a filtered page of products
func (u *ProductUsecase) ListProducts(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, utils.PaginationMeta, error) {
	products, total, err := u.productRepo.List(ctx, filter, pagination)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return products, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgProductNotFound)
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct stores a new product, creating its category on first use.
func (u *ProductUsecase) CreateProduct(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error) {
	name := strings.TrimSpace(input.Name)
	categoryName := strings.TrimSpace(input.Category)
	if name == "" || categoryName == "" || input.Price == nil || input.Stock == nil {
		return nil, domainerrors.BadRequest(MsgMissingFields)
	}
	if input.Price.IsNegative() || (input.CostPrice != nil && input.CostPrice.IsNegative()) {
		return nil, domainerrors.Validation("Validation failed", map[string]string{"price": "must not be negative"})
	}

	category, err := u.findOrCreateCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	product := &entities.Product{
		ID:           utils.GenerateUUIDv7(),
		Name:         name,
		SKU:          optionalString(input.SKU),
		Barcode:      optionalString(input.Barcode),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Price:        *input.Price,
		CostPrice:    decimal.Zero,
		Stock:        *input.Stock,
		Unit:         strings.TrimSpace(input.Unit),
		Supplier:     optionalString(input.Supplier),
		Description:  optionalString(input.Description),
		Location:     optionalString(input.Location),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	if product.Unit == "" {
		product.Unit = entities.DefaultUnit
	}
	product.RefreshStatus()

	if err := u.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateSKU) {
			return nil, domainerrors.Conflict("A product with this SKU or barcode already exists")
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update. Status follows stock and minStock.
func (u *ProductUsecase) UpdateProduct(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error) {
	product, err := u.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			product.Name = name
		}
	}
	if input.Category != nil {
		if name := strings.TrimSpace(*input.Category); name != "" && name != product.CategoryName {
			category, err := u.findOrCreateCategory(ctx, name)
			if err != nil {
				return nil, err
			}
			product.CategoryID = category.ID
			product.CategoryName = category.Name
		}
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, domainerrors.Validation("Validation failed", map[string]string{"price": "must not be negative"})
		}
		product.Price = *input.Price
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, domainerrors.Validation("Validation failed", map[string]string{"costPrice": "must not be negative"})
		}
		product.CostPrice = *input.CostPrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	if input.Unit != nil {
		product.Unit = strings.TrimSpace(*input.Unit)
		if product.Unit == "" {
			product.Unit = entities.DefaultUnit
		}
	}
	if input.SKU != nil {
		product.SKU = optionalString(*input.SKU)
	}
	if input.Barcode != nil {
		product.Barcode = optionalString(*input.Barcode)
	}
	if input.Supplier != nil {
		product.Supplier = optionalString(*input.Supplier)
	}
	if input.Description != nil {
		product.Description = optionalString(*input.Description)
	}
	if input.Location != nil {
		product.Location = optionalString(*input.Location)
	}

	product.RefreshStatus()
	product.UpdatedAt = u.now().UTC()

	if err := u.productRepo.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrDuplicateSKU):
			return nil, domainerrors.Conflict("A product with this SKU or barcode already exists")
		case errors.Is(err, domainerrors.ErrNotFound):
			return nil, domainerrors.NotFound(MsgProductNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := u.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(MsgProductNotFound)
		}
		return err
	}
	return nil
}

// ListCategories returns every category with its product count
func (u *ProductUsecase) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*entities.Category{}
	}
	return categories, nil
}

// findOrCreateCategory tolerates a concurrent create of the same name.
func (u *ProductUsecase) findOrCreateCategory(ctx context.Context, name string) (*entities.Category, error) {
	category, err := u.categoryRepo.GetByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	return u.categoryRepo.GetOrCreate(ctx, &entities.Category{
		ID:        utils.GenerateUUIDv7(),
		Name:      name,
		CreatedAt: u.now().UTC(),
	})
}

func optionalString(v string) null.String {
	v = strings.TrimSpace(v)
	return null.NewString(v, v != "")
}
