package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
)

func TestEmailVerificationRepository_UpsertReplacesCode(t *testing.T) {
	db := newMigratedDB(t)
	repo := NewEmailVerificationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, &entities.EmailVerification{
		ID: uuid.New(), Email: "new@shop.test", OTP: "111111", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.MarkVerified(ctx, "new@shop.test"))

	// a resend replaces the code and clears the verified flag
	require.NoError(t, repo.Upsert(ctx, &entities.EmailVerification{
		ID: uuid.New(), Email: "new@shop.test", OTP: "222222", ExpiresAt: now.Add(20 * time.Minute), CreatedAt: now, UpdatedAt: now,
	}))

	v, err := repo.GetByEmail(ctx, "NEW@shop.test")
	require.NoError(t, err)
	require.Equal(t, "222222", v.OTP)
	require.False(t, v.Verified)

	var count int64
	require.NoError(t, db.Table("email_verifications").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestEmailVerificationRepository_MarkVerifiedOnce(t *testing.T) {
	db := newMigratedDB(t)
	repo := NewEmailVerificationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, &entities.EmailVerification{
		ID: uuid.New(), Email: "a@shop.test", OTP: "123456", ExpiresAt: now.Add(time.Minute),
	}))

	require.NoError(t, repo.MarkVerified(ctx, "a@shop.test"))
	require.ErrorIs(t, repo.MarkVerified(ctx, "a@shop.test"), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.MarkVerified(ctx, "nobody@shop.test"), domainerrors.ErrNotFound)

	v, err := repo.GetByEmail(ctx, "a@shop.test")
	require.NoError(t, err)
	require.True(t, v.Verified)

	require.NoError(t, repo.DeleteByEmail(ctx, "a@shop.test"))
	_, err = repo.GetByEmail(ctx, "a@shop.test")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEmailVerificationRepository_DeleteExpiredUnverified(t *testing.T) {
	db := newMigratedDB(t)
	repo := NewEmailVerificationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, &entities.EmailVerification{ID: uuid.New(), Email: "old@shop.test", OTP: "1", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, &entities.EmailVerification{ID: uuid.New(), Email: "fresh@shop.test", OTP: "2", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, &entities.EmailVerification{ID: uuid.New(), Email: "done@shop.test", OTP: "3", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.MarkVerified(ctx, "done@shop.test"))

	n, err := repo.DeleteExpiredUnverified(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = repo.GetByEmail(ctx, "fresh@shop.test")
	require.NoError(t, err)
	_, err = repo.GetByEmail(ctx, "done@shop.test")
	require.NoError(t, err)
}

func TestPasswordResetRepository_Flow(t *testing.T) {
	db := newMigratedDB(t)
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()
	userID := uuid.New()

	first := &entities.PasswordResetToken{ID: uuid.New(), UserID: userID, TokenHash: "h1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	require.NoError(t, repo.Create(ctx, first))

	require.NoError(t, repo.DeleteByUserID(ctx, userID))
	_, err := repo.GetByHash(ctx, "h1")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	second := &entities.PasswordResetToken{ID: uuid.New(), UserID: userID, TokenHash: "h2", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.GetByHash(ctx, "h2")
	require.NoError(t, err)
	require.Equal(t, userID, got.UserID)
	require.False(t, got.Used)

	require.NoError(t, repo.MarkUsed(ctx, second.ID))
	require.ErrorIs(t, repo.MarkUsed(ctx, second.ID), domainerrors.ErrNotFound)

	got, err = repo.GetByHash(ctx, "h2")
	require.NoError(t, err)
	require.True(t, got.Used)
}

func TestPasswordResetRepository_DeleteStale(t *testing.T) {
	db := newMigratedDB(t)
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &entities.PasswordResetToken{ID: uuid.New(), UserID: uuid.New(), TokenHash: "expired", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entities.PasswordResetToken{ID: uuid.New(), UserID: uuid.New(), TokenHash: "used", ExpiresAt: now.Add(time.Hour), Used: true}))
	require.NoError(t, repo.Create(ctx, &entities.PasswordResetToken{ID: uuid.New(), UserID: uuid.New(), TokenHash: "live", ExpiresAt: now.Add(time.Hour)}))

	n, err := repo.DeleteStale(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	_, err = repo.GetByHash(ctx, "live")
	require.NoError(t, err)
}

func TestVerificationRepositories_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	ev := NewEmailVerificationRepository(db)
	pr := NewPasswordResetRepository(db)
	ctx := context.Background()

	require.Error(t, ev.Upsert(ctx, &entities.EmailVerification{ID: uuid.New(), Email: "a@b.c"}))
	_, err := ev.GetByEmail(ctx, "a@b.c")
	require.Error(t, err)
	require.Error(t, ev.MarkVerified(ctx, "a@b.c"))
	_, err = ev.DeleteExpiredUnverified(ctx, time.Now())
	require.Error(t, err)

	require.Error(t, pr.Create(ctx, &entities.PasswordResetToken{ID: uuid.New()}))
	require.Error(t, pr.MarkUsed(ctx, uuid.New()))
	_, err = pr.DeleteStale(ctx, time.Now())
	require.Error(t, err)
}
