package usecases_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/crypto"
	"stock-tracker.backend/pkg/jwt"
)

type resetFixture struct {
	users  *MockUserRepository
	resets *MockPasswordResetRepository
	uow    *MockUnitOfWork
	mailer *MockMailer
	signer *jwt.ResetTokenSigner
	uc     *usecases.PasswordResetUsecase
}

func newResetFixture(delay time.Duration) *resetFixture {
	f := &resetFixture{
		users:  new(MockUserRepository),
		resets: new(MockPasswordResetRepository),
		uow:    new(MockUnitOfWork),
		mailer: new(MockMailer),
		signer: jwt.NewResetTokenSigner("reset-secret", time.Hour),
	}
	f.uc = usecases.NewPasswordResetUsecase(f.users, f.resets, f.uow, f.signer, f.mailer, "https://app.test/", delay)
	return f
}

func TestPasswordReset_RequestReset_KnownEmail(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(0)
	user := &entities.User{ID: uuid.New(), Email: "owner@shop.test", Name: "Owner"}

	f.users.On("GetByEmail", ctx, "owner@shop.test").Return(user, nil)
	f.uow.On("Do", ctx, mock.Anything).Return(nil)
	f.resets.On("DeleteByUserID", ctx, user.ID).Return(nil)
	var stored *entities.PasswordResetToken
	f.resets.On("Create", ctx, mock.AnythingOfType("*entities.PasswordResetToken")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entities.PasswordResetToken) }).
		Return(nil)
	f.mailer.On("SendPasswordReset", ctx, "owner@shop.test", "Owner", mock.AnythingOfType("string"), time.Hour).Return(nil)

	res, err := f.uc.RequestReset(ctx, "Owner@Shop.test")
	require.NoError(t, err)
	assert.Equal(t, usecases.MsgResetRequested, res.Message)

	link := f.mailer.Calls[0].Arguments.String(3)
	require.True(t, strings.HasPrefix(link, "https://app.test/reset-password?token="))
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	require.NotNil(t, stored)
	assert.Equal(t, crypto.HashToken(token), stored.TokenHash)
	assert.NotEqual(t, token, stored.TokenHash)
	assert.Equal(t, user.ID, stored.UserID)
	assert.False(t, stored.Used)

	subject, err := f.signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestPasswordReset_RequestReset_SameMessageForUnknownEmail(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(30 * time.Millisecond)
	f.users.On("GetByEmail", ctx, "ghost@shop.test").Return(nil, domainerrors.ErrNotFound)

	start := time.Now()
	res, err := f.uc.RequestReset(ctx, "ghost@shop.test")
	require.NoError(t, err)
	assert.Equal(t, usecases.MsgResetRequested, res.Message)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
	f.mailer.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	f = newResetFixture(time.Hour)
	f.users.On("GetByEmail", canceled, "ghost@shop.test").Return(nil, domainerrors.ErrNotFound)
	res, err = f.uc.RequestReset(canceled, "ghost@shop.test")
	require.NoError(t, err)
	assert.Equal(t, usecases.MsgResetRequested, res.Message)
}

func TestPasswordReset_RequestReset_Failures(t *testing.T) {
	ctx := context.Background()
	user := &entities.User{ID: uuid.New(), Email: "owner@shop.test"}

	t.Run("lookup error", func(t *testing.T) {
		f := newResetFixture(0)
		f.users.On("GetByEmail", ctx, "owner@shop.test").Return(nil, errors.New("db down"))
		_, err := f.uc.RequestReset(ctx, "owner@shop.test")
		assert.EqualError(t, err, "db down")
	})

	t.Run("store fails", func(t *testing.T) {
		f := newResetFixture(0)
		f.users.On("GetByEmail", ctx, "owner@shop.test").Return(user, nil)
		f.uow.On("Do", ctx, mock.Anything).Return(nil)
		f.resets.On("DeleteByUserID", ctx, user.ID).Return(errors.New("delete failed"))
		_, err := f.uc.RequestReset(ctx, "owner@shop.test")
		appErr := requireStatus(t, err, http.StatusInternalServerError)
		assert.Equal(t, usecases.MsgResetFailed, appErr.Message)
	})

	t.Run("mail fails", func(t *testing.T) {
		f := newResetFixture(0)
		f.users.On("GetByEmail", ctx, "owner@shop.test").Return(user, nil)
		f.uow.On("Do", ctx, mock.Anything).Return(nil)
		f.resets.On("DeleteByUserID", ctx, user.ID).Return(nil)
		f.resets.On("Create", ctx, mock.Anything).Return(nil)
		f.mailer.On("SendPasswordReset", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		_, err := f.uc.RequestReset(ctx, "owner@shop.test")
		appErr := requireStatus(t, err, http.StatusInternalServerError)
		assert.Equal(t, usecases.MsgResetFailed, appErr.Message)
	})
}

func TestPasswordReset_ResetPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	issue := func(f *resetFixture) (string, *entities.PasswordResetToken) {
		token, exp, err := f.signer.Issue(userID, "owner@shop.test")
		require.NoError(t, err)
		return token, &entities.PasswordResetToken{
			ID:        uuid.New(),
			UserID:    userID,
			TokenHash: crypto.HashToken(token),
			ExpiresAt: exp,
		}
	}

	t.Run("success", func(t *testing.T) {
		f := newResetFixture(0)
		token, rec := issue(f)
		f.resets.On("GetByHash", ctx, rec.TokenHash).Return(rec, nil)
		f.uow.On("Do", ctx, mock.Anything).Return(nil)
		f.resets.On("MarkUsed", ctx, rec.ID).Return(nil)
		var newHash string
		f.users.On("UpdatePassword", ctx, userID, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { newHash = args.String(2) }).
			Return(nil)

		res, err := f.uc.ResetPassword(ctx, &entities.ResetPasswordInput{Token: token, Password: "new-password"})
		require.NoError(t, err)
		assert.Equal(t, usecases.MsgPasswordReset, res.Message)
		assert.True(t, crypto.CheckPassword("new-password", newHash))
	})

	invalid := map[string]func(f *resetFixture) string{
		"bad signature": func(f *resetFixture) string { return "not-a-real-token" },
		"unknown hash": func(f *resetFixture) string {
			token, rec := issue(f)
			f.resets.On("GetByHash", ctx, rec.TokenHash).Return(nil, domainerrors.ErrNotFound)
			return token
		},
		"already used": func(f *resetFixture) string {
			token, rec := issue(f)
			rec.Used = true
			f.resets.On("GetByHash", ctx, rec.TokenHash).Return(rec, nil)
			return token
		},
		"record expired": func(f *resetFixture) string {
			token, rec := issue(f)
			rec.ExpiresAt = time.Now().Add(-time.Minute)
			f.resets.On("GetByHash", ctx, rec.TokenHash).Return(rec, nil)
			return token
		},
		"other user": func(f *resetFixture) string {
			token, rec := issue(f)
			rec.UserID = uuid.New()
			f.resets.On("GetByHash", ctx, rec.TokenHash).Return(rec, nil)
			return token
		},
		"used concurrently": func(f *resetFixture) string {
			token, rec := issue(f)
			f.resets.On("GetByHash", ctx, rec.TokenHash).Return(rec, nil)
			f.uow.On("Do", ctx, mock.Anything).Return(nil)
			f.resets.On("MarkUsed", ctx, rec.ID).Return(domainerrors.ErrNotFound)
			return token
		},
	}
	for name, setup := range invalid {
		t.Run(name, func(t *testing.T) {
			f := newResetFixture(0)
			token := setup(f)
			_, err := f.uc.ResetPassword(ctx, &entities.ResetPasswordInput{Token: token, Password: "new-password"})
			appErr := requireStatus(t, err, http.StatusBadRequest)
			assert.Equal(t, usecases.MsgResetInvalid, appErr.Message)
			f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("update fails", func(t *testing.T) {
		f := newResetFixture(0)
		token, rec := issue(f)
		f.resets.On("GetByHash", ctx, rec.TokenHash).Return(rec, nil)
		f.uow.On("Do", ctx, mock.Anything).Return(nil)
		f.resets.On("MarkUsed", ctx, rec.ID).Return(nil)
		f.users.On("UpdatePassword", ctx, userID, mock.Anything).Return(errors.New("write failed"))
		_, err := f.uc.ResetPassword(ctx, &entities.ResetPasswordInput{Token: token, Password: "new-password"})
		assert.EqualError(t, err, "write failed")
	})
}
