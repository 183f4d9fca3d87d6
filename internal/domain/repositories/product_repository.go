package repositories

import (
	"context"

	"github.com/google/uuid"
	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/pkg/utils"
)

// CategoryRepository defines category data operations
type CategoryRepository interface {
	List(ctx context.Context) ([]*entities.Category, error)
	GetByName(ctx context.Context, name string) (*entities.Category, error)
	FindByNames(ctx context.Context, names []string) ([]*entities.Category, error)
	// GetOrCreate inserts category unless the name exists and returns the stored row.
	GetOrCreate(ctx context.Context, category *entities.Category) (*entities.Category, error)
}

// ProductRepository defines product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	Update(ctx context.Context, product *entities.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error)
	// BulkCreate skips rows that hit a unique constraint and returns how many were inserted.
	BulkCreate(ctx context.Context, products []*entities.Product) (int, error)
	ListAttention(ctx context.Context, limit int) ([]*entities.Product, error)
	InventorySummary(ctx context.Context) (*entities.InventorySummary, error)
	CategoryBreakdown(ctx context.Context) ([]entities.CategoryCount, error)
}
