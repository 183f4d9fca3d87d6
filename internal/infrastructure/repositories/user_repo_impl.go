package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A taken email yields ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:               user.ID,
		Email:            normalizeEmail(user.Email),
		Name:             user.Name,
		PasswordHash:     user.PasswordHash,
		Role:             string(user.Role),
		Phone:            user.Phone,
		Avatar:           user.Avatar,
		EmailVerified:    user.EmailVerified,
		OrderAlerts:      user.Notifications.OrderAlerts,
		LowStockWarnings: user.Notifications.LowStockWarnings,
		WeeklyReports:    user.Notifications.WeeklyReports,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
	return duplicate(GetDB(ctx, r.db).Create(m).Error, domainerrors.ErrEmailTaken)
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

// GetByEmail gets a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", normalizeEmail(email)).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

// Update writes profile fields and notification toggles
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"name":               user.Name,
		"phone":              user.Phone,
		"avatar":             user.Avatar,
		"order_alerts":       user.Notifications.OrderAlerts,
		"low_stock_warnings": user.Notifications.LowStockWarnings,
		"weekly_reports":     user.Notifications.WeeklyReports,
		"updated_at":         time.Now().UTC(),
	}

	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:            m.ID,
		Email:         m.Email,
		Name:          m.Name,
		PasswordHash:  m.PasswordHash,
		Role:          entities.UserRole(m.Role),
		Phone:         m.Phone,
		Avatar:        m.Avatar,
		EmailVerified: m.EmailVerified,
		Notifications: entities.NotificationSettings{
			OrderAlerts:      m.OrderAlerts,
			LowStockWarnings: m.LowStockWarnings,
			WeeklyReports:    m.WeeklyReports,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
