package usecases

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/domain/repositories"
	"stock-tracker.backend/pkg/crypto"
	"stock-tracker.backend/pkg/jwt"
	"stock-tracker.backend/pkg/logger"
	redispkg "stock-tracker.backend/pkg/redis"
	"stock-tracker.backend/pkg/utils"
)

var (
	generateOTP     = crypto.GenerateOTP
	hashPassword    = crypto.HashPassword
	reserveCooldown = redispkg.SetNX
	releaseCooldown = redispkg.Del
)

// AuthOptions toggles the signup flow.
type AuthOptions struct {
	RequireEmailVerification bool
	OTPTTL                   time.Duration
	OTPResendCooldown        time.Duration
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo       repositories.UserRepository
	emailVerifRepo repositories.EmailVerificationRepository
	uow            repositories.UnitOfWork
	jwtService     *jwt.JWTService
	mailer         Mailer
	opts           AuthOptions
	now            func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	emailVerifRepo repositories.EmailVerificationRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
	mailer Mailer,
	opts AuthOptions,
) *AuthUsecase {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 10 * time.Minute
	}
	return &AuthUsecase{
		userRepo:       userRepo,
		emailVerifRepo: emailVerifRepo,
		uow:            uow,
		jwtService:     jwtService,
		mailer:         mailer,
		opts:           opts,
		now:            time.Now,
	}
}

// SendOTP issues a fresh 6-digit code for an unregistered email and mails it.
// A new code replaces any earlier one for the same address.
func (u *AuthUsecase) SendOTP(ctx context.Context, email string) (*entities.MessageResponse, error) {
	email = normalizeEmail(email)

	exists, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.Conflict(MsgEmailTaken)
	}

	cooldownKey := otpCooldownKeyPrefix + email
	reserved, sent := false, false
	if u.opts.OTPResendCooldown > 0 {
		ok, err := reserveCooldown(ctx, cooldownKey, "1", u.opts.OTPResendCooldown)
		switch {
		case err != nil:
			logger.Warn(ctx, "OTP cooldown check failed", zap.Error(err))
		case !ok:
			return nil, domainerrors.TooManyRequests("Please wait before requesting another code")
		default:
			reserved = true
		}
	}
	// A failed attempt must not lock the address out until the cooldown expires.
	defer func() {
		if reserved && !sent {
			_ = releaseCooldown(ctx, cooldownKey)
		}
	}()

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	record := &entities.EmailVerification{
		ID:        utils.GenerateUUIDv7(),
		Email:     email,
		OTP:       code,
		ExpiresAt: now.Add(u.opts.OTPTTL),
		Verified:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.emailVerifRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	if err := u.mailer.SendOTP(ctx, email, code, u.opts.OTPTTL); err != nil {
		return nil, domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError,
			"Failed to send verification code. Please try again.", err)
	}

	sent = true
	return &entities.MessageResponse{Success: true, Message: MsgOTPSent}, nil
}

// VerifyOTP checks the code for email. Verifying twice is not an error.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, email, code string) (*entities.MessageResponse, error) {
	email = normalizeEmail(email)

	record, err := u.emailVerifRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewAppError(http.StatusNotFound, domainerrors.CodeNotFound,
				"No verification code found for this email", domainerrors.ErrOTPNotFound)
		}
		return nil, err
	}

	if record.Verified {
		return &entities.MessageResponse{Success: true, Message: MsgEmailAlreadyVerified}, nil
	}
	if record.IsExpired(u.now()) {
		return nil, domainerrors.NewAppError(http.StatusGone, domainerrors.CodeGone,
			"Verification code has expired. Please request a new one.", domainerrors.ErrOTPExpired)
	}
	if !crypto.ConstantTimeEqual(strings.TrimSpace(code), record.OTP) {
		return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadRequest,
			"Invalid verification code", domainerrors.ErrInvalidOTP)
	}

	if err := u.emailVerifRepo.MarkVerified(ctx, email); err != nil {
		// a concurrent verify got there first
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.MessageResponse{Success: true, Message: MsgEmailAlreadyVerified}, nil
		}
		return nil, err
	}
	return &entities.MessageResponse{Success: true, Message: MsgEmailVerified}, nil
}

// Signup creates an account. When email verification is required the
// verified OTP record is consumed in the same transaction.
func (u *AuthUsecase) Signup(ctx context.Context, input *entities.SignupInput) (*entities.User, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || email == "" || len(input.Password) < 8 {
		return nil, domainerrors.BadRequest(MsgMissingFields)
	}
	if input.Password != input.ConfirmPassword {
		return nil, domainerrors.Validation("Validation failed", map[string]string{
			"confirmPassword": "Passwords do not match",
		})
	}

	exists, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.Conflict(MsgEmailTaken)
	}

	if u.opts.RequireEmailVerification {
		record, err := u.emailVerifRepo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		if record == nil || !record.Verified {
			return nil, domainerrors.NewAppError(http.StatusForbidden, domainerrors.CodeEmailNotVerified,
				"Please verify your email before signing up", domainerrors.ErrEmailNotVerified)
		}
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	user := &entities.User{
		ID:            utils.GenerateUUIDv7(),
		Email:         email,
		Name:          name,
		PasswordHash:  passwordHash,
		Role:          entities.UserRoleUser,
		EmailVerified: u.opts.RequireEmailVerification,
		Notifications: entities.DefaultNotificationSettings(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		if u.opts.RequireEmailVerification {
			return u.emailVerifRepo.DeleteByEmail(txCtx, email)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			return nil, domainerrors.Conflict(MsgEmailTaken)
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
