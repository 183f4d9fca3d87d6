package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/interfaces/http/middleware"
	"stock-tracker.backend/internal/interfaces/http/response"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/jwt"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/redis"
)

// AuthService is the account side of authentication.
type AuthService interface {
	SendOTP(ctx context.Context, email string) (*entities.MessageResponse, error)
	VerifyOTP(ctx context.Context, email, code string) (*entities.MessageResponse, error)
	Signup(ctx context.Context, input *entities.SignupInput) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// PasswordResetService issues and redeems reset links.
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) (*entities.MessageResponse, error)
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) (*entities.MessageResponse, error)
}

// SessionStore keeps tokens server side for clients that log in with useSession.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// CookieOptions controls the auth cookies.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  AuthService
	resetService PasswordResetService
	sessionStore SessionStore
	cookies      CookieOptions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, resetService PasswordResetService, sessionStore SessionStore, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		sessionStore: sessionStore,
		cookies:      cookies,
	}
}

// SendOTP emails a verification code
// POST /api/v1/auth/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var input entities.SendOTPInput
	if !bindJSON(c, &input) {
		return
	}

	resp, err := h.authService.SendOTP(c.Request.Context(), input.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// VerifyOTP checks a verification code
// POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var input entities.VerifyOTPInput
	if !bindJSON(c, &input) {
		return
	}

	resp, err := h.authService.VerifyOTP(c.Request.Context(), input.Email, input.OTP)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Signup creates an account
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var input entities.SignupInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"success": true,
		"message": usecases.MsgAccountCreated,
		"user":    presentUser(user),
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if input.UseSession {
		sessionID := uuid.NewString()
		err := h.sessionStore.CreateSession(c.Request.Context(), sessionID, &redis.SessionData{
			UserID:       authResponse.User.ID.String(),
			Email:        authResponse.User.Email,
			Role:         string(authResponse.User.Role),
			AccessToken:  authResponse.AccessToken,
			RefreshToken: authResponse.RefreshToken,
		}, h.cookies.RefreshTTL)
		if err != nil {
			response.Error(c, domainerrors.InternalError(err))
			return
		}
		response.Success(c, http.StatusOK, gin.H{
			"sessionId": sessionID,
			"user":      presentUser(authResponse.User),
		})
		return
	}

	h.setAuthCookies(c, authResponse.AccessToken, authResponse.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  authResponse.AccessToken,
		"refreshToken": authResponse.RefreshToken,
		"user":         presentUser(authResponse.User),
	})
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input entities.RefreshInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			logger.Debug(c.Request.Context(), "Refresh body ignored", zap.Error(err))
		}
	}

	refreshToken := input.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(middleware.RefreshTokenCookie)
	}
	if refreshToken == "" {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	tokenPair, err := h.authService.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Invalid or expired refresh token", err))
		return
	}

	h.setAuthCookies(c, tokenPair.AccessToken, tokenPair.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  tokenPair.AccessToken,
		"refreshToken": tokenPair.RefreshToken,
	})
}

// Logout clears cookies and drops the server side session, if any
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := c.GetHeader(middleware.SessionHeader); sid != "" {
		if err := h.sessionStore.DeleteSession(c.Request.Context(), sid); err != nil {
			logger.Warn(c.Request.Context(), "Failed to delete session", zap.Error(err))
		}
	}
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)

	response.Success(c, http.StatusOK, entities.MessageResponse{Success: true, Message: "Logged out"})
}

// GetMe returns current authenticated user details
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": presentUser(user)})
}

// ForgotPassword starts a reset. The answer is the same whether or not the account exists.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Please provide a valid email address."))
		return
	}

	resp, err := h.resetService.RequestReset(c.Request.Context(), input.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// ResetPassword redeems a reset link
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	resp, err := h.resetService.ResetPassword(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, access, int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, refresh, int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}
