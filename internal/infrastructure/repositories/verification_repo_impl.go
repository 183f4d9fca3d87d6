package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/infrastructure/models"
)

// EmailVerificationRepository implements EmailVerificationRepository
type EmailVerificationRepository struct {
	db *gorm.DB
}

func NewEmailVerificationRepository(db *gorm.DB) *EmailVerificationRepository {
	return &EmailVerificationRepository{db: db}
}

// Upsert inserts or replaces the pending code for an email.
func (r *EmailVerificationRepository) Upsert(ctx context.Context, v *entities.EmailVerification) error {
	m := &models.EmailVerification{
		ID:        v.ID,
		Email:     normalizeEmail(v.Email),
		OTP:       v.OTP,
		ExpiresAt: v.ExpiresAt,
		Verified:  false,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "expires_at", "verified", "updated_at"}),
	}).Create(m).Error
}

func (r *EmailVerificationRepository) GetByEmail(ctx context.Context, email string) (*entities.EmailVerification, error) {
	var m models.EmailVerification
	if err := GetDB(ctx, r.db).Where("email = ?", normalizeEmail(email)).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.EmailVerification{
		ID:        m.ID,
		Email:     m.Email,
		OTP:       m.OTP,
		ExpiresAt: m.ExpiresAt,
		Verified:  m.Verified,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// MarkVerified returns ErrNotFound when no unverified row exists.
func (r *EmailVerificationRepository) MarkVerified(ctx context.Context, email string) error {
	result := GetDB(ctx, r.db).Model(&models.EmailVerification{}).
		Where("email = ? AND verified = ?", normalizeEmail(email), false).
		Updates(map[string]interface{}{"verified": true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *EmailVerificationRepository) DeleteByEmail(ctx context.Context, email string) error {
	return GetDB(ctx, r.db).Where("email = ?", normalizeEmail(email)).Delete(&models.EmailVerification{}).Error
}

// DeleteExpiredUnverified removes abandoned codes. Verified rows are kept
// until signup consumes them.
func (r *EmailVerificationRepository) DeleteExpiredUnverified(ctx context.Context, before time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Where("verified = ? AND expires_at < ?", false, before.UTC()).Delete(&models.EmailVerification{})
	return result.RowsAffected, result.Error
}

// PasswordResetRepository implements PasswordResetRepository
type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, t *entities.PasswordResetToken) error {
	m := &models.PasswordResetToken{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		Used:      t.Used,
		CreatedAt: t.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *PasswordResetRepository) GetByHash(ctx context.Context, tokenHash string) (*entities.PasswordResetToken, error) {
	var m models.PasswordResetToken
	if err := GetDB(ctx, r.db).Where("token_hash = ?", tokenHash).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.PasswordResetToken{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *PasswordResetRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
}

// MarkUsed is a compare-and-set on used=false so a token is consumed once.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.PasswordResetToken{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteStale removes used tokens and tokens that expired before the cutoff.
func (r *PasswordResetRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Where("used = ? OR expires_at < ?", true, before.UTC()).Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
