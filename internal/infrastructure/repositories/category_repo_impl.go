package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/infrastructure/models"
)

// CategoryRepository implements CategoryRepository
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories with their product counts, by name.
func (r *CategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	var rows []struct {
		models.Category
		ProductCount int64
	}
	err := GetDB(ctx, r.db).Model(&models.Category{}).
		Select("categories.id, categories.name, categories.created_at, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name, categories.created_at").
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Category, 0, len(rows))
	for i := range rows {
		c := toCategoryEntity(&rows[i].Category)
		c.ProductCount = rows[i].ProductCount
		out = append(out, c)
	}
	return out, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*entities.Category, error) {
	var m models.Category
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return toCategoryEntity(&m), nil
}

func (r *CategoryRepository) FindByNames(ctx context.Context, names []string) ([]*entities.Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var ms []models.Category
	if err := GetDB(ctx, r.db).Where("name IN ?", names).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Category, 0, len(ms))
	for i := range ms {
		out = append(out, toCategoryEntity(&ms[i]))
	}
	return out, nil
}

// GetOrCreate never fails on a name conflict, so it is safe inside a
// transaction that must keep going.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	db := GetDB(ctx, r.db)
	m := &models.Category{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(m).Error
	if err != nil {
		return nil, err
	}

	var stored models.Category
	if err := db.Where("name = ?", category.Name).First(&stored).Error; err != nil {
		return nil, notFound(err)
	}
	return toCategoryEntity(&stored), nil
}

func toCategoryEntity(m *models.Category) *entities.Category {
	return &entities.Category{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}
