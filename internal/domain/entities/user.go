package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

// NotificationSettings are the per-user dashboard alert toggles.
type NotificationSettings struct {
	OrderAlerts      bool `json:"orderAlerts"`
	LowStockWarnings bool `json:"lowStockWarnings"`
	WeeklyReports    bool `json:"weeklyReports"`
}

// DefaultNotificationSettings is what a new account starts with.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		OrderAlerts:      true,
		LowStockWarnings: true,
		WeeklyReports:    false,
	}
}

// User represents a user entity
type User struct {
	ID            uuid.UUID            `json:"id"`
	Email         string               `json:"email"`
	Name          string               `json:"name"`
	PasswordHash  string               `json:"-"`
	Role          UserRole             `json:"role"`
	Phone         null.String          `json:"phone"`
	Avatar        null.String          `json:"avatar"`
	EmailVerified bool                 `json:"emailVerified"`
	Notifications NotificationSettings `json:"notifications"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// SignupInput represents input for creating an account
type SignupInput struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// SendOTPInput requests an email verification code
type SendOTPInput struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPInput submits an email verification code
type VerifyOTPInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"`
}

// RefreshInput carries a refresh token when it is not sent as a cookie
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordInput starts a password reset
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput completes a password reset
type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required,min=10"`
	Password string `json:"password" binding:"required,min=8"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	User         *User  `json:"user"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
