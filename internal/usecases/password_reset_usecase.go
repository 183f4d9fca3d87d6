package usecases

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/domain/repositories"
	"stock-tracker.backend/pkg/crypto"
	"stock-tracker.backend/pkg/jwt"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/utils"
)

// sleepCtx pads the unknown-email path so it takes about as long as a real send.
var sleepCtx = func(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// PasswordResetUsecase issues and redeems password reset links.
type PasswordResetUsecase struct {
	userRepo     repositories.UserRepository
	resetRepo    repositories.PasswordResetRepository
	uow          repositories.UnitOfWork
	signer       *jwt.ResetTokenSigner
	mailer       Mailer
	appURL       string
	unknownDelay time.Duration
	now          func() time.Time
}

func NewPasswordResetUsecase(
	userRepo repositories.UserRepository,
	resetRepo repositories.PasswordResetRepository,
	uow repositories.UnitOfWork,
	signer *jwt.ResetTokenSigner,
	mailer Mailer,
	appURL string,
	unknownDelay time.Duration,
) *PasswordResetUsecase {
	return &PasswordResetUsecase{
		userRepo:     userRepo,
		resetRepo:    resetRepo,
		uow:          uow,
		signer:       signer,
		mailer:       mailer,
		appURL:       strings.TrimRight(appURL, "/"),
		unknownDelay: unknownDelay,
		now:          time.Now,
	}
}

// RequestReset mails a reset link when the account exists. The response is
// the same either way so callers cannot probe for registered emails.
func (u *PasswordResetUsecase) RequestReset(ctx context.Context, email string) (*entities.MessageResponse, error) {
	ack := &entities.MessageResponse{Success: true, Message: MsgResetRequested}

	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			sleepCtx(ctx, u.unknownDelay)
			return ack, nil
		}
		return nil, err
	}

	token, expiresAt, err := u.signer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, resetSendFailed(err)
	}

	record := &entities.PasswordResetToken{
		ID:        utils.GenerateUUIDv7(),
		UserID:    user.ID,
		TokenHash: crypto.HashToken(token),
		ExpiresAt: expiresAt,
		CreatedAt: u.now().UTC(),
	}
	// only the newest link stays valid
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.resetRepo.DeleteByUserID(txCtx, user.ID); err != nil {
			return err
		}
		return u.resetRepo.Create(txCtx, record)
	})
	if err != nil {
		return nil, resetSendFailed(err)
	}

	link := u.appURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := u.mailer.SendPasswordReset(ctx, user.Email, user.Name, link, u.signer.TTL()); err != nil {
		logger.Error(ctx, "Password reset email failed", zap.String("userId", user.ID.String()), zap.Error(err))
		return nil, resetSendFailed(err)
	}
	return ack, nil
}

// ResetPassword redeems a reset token exactly once.
func (u *PasswordResetUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) (*entities.MessageResponse, error) {
	userID, err := u.signer.Verify(input.Token)
	if err != nil {
		return nil, resetInvalid()
	}

	record, err := u.resetRepo.GetByHash(ctx, crypto.HashToken(input.Token))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, resetInvalid()
		}
		return nil, err
	}
	if record.Used || record.IsExpired(u.now()) || record.UserID != userID {
		return nil, resetInvalid()
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.resetRepo.MarkUsed(txCtx, record.ID); err != nil {
			return err
		}
		return u.userRepo.UpdatePassword(txCtx, userID, passwordHash)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, resetInvalid()
		}
		return nil, err
	}
	return &entities.MessageResponse{Success: true, Message: MsgPasswordReset}, nil
}

func resetInvalid() error {
	return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadRequest, MsgResetInvalid, domainerrors.ErrResetTokenInvalid)
}

func resetSendFailed(err error) error {
	return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError, MsgResetFailed, err)
}
