package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"stock-tracker.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// EmailVerificationRepository stores one pending OTP per email
type EmailVerificationRepository interface {
	// Upsert replaces any existing record for the email and resets Verified.
	Upsert(ctx context.Context, v *entities.EmailVerification) error
	GetByEmail(ctx context.Context, email string) (*entities.EmailVerification, error)
	// MarkVerified flips verified only on a not-yet-verified row.
	MarkVerified(ctx context.Context, email string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpiredUnverified(ctx context.Context, before time.Time) (int64, error)
}

// PasswordResetRepository stores hashed reset tokens
type PasswordResetRepository interface {
	Create(ctx context.Context, t *entities.PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*entities.PasswordResetToken, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	// MarkUsed returns ErrNotFound when the token is missing or already used.
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}
