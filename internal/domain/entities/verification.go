package entities

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerification is the pending OTP for an email address. One row per email.
type EmailVerification struct {
	ID        uuid.UUID
	Email     string
	OTP       string
	ExpiresAt time.Time
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *EmailVerification) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// PasswordResetToken stores only the sha256 of the issued token.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
