package usecases

import "time"

// User facing messages
const (
	MsgOTPSent              = "Verification code sent to your email"
	MsgEmailVerified        = "Email verified successfully"
	MsgEmailAlreadyVerified = "Email already verified"
	MsgAccountCreated       = "Account created successfully"
	MsgResetRequested       = "If an account exists for this email, a reset link is on the way."
	MsgResetFailed          = "Unable to send the reset email. Please try again."
	MsgResetInvalid         = "Reset link is invalid or has expired."
	MsgPasswordReset        = "Password has been reset successfully"
	MsgEmailTaken           = "An account with this email already exists"
	MsgNothingToImport      = "No valid products to import"
	MsgMissingFields        = "Missing required fields"
	MsgProductNotFound      = "Product not found"
)

// Dashboard and report sizing
const (
	RecentOrdersLimit       = 5
	NotificationLimit       = 3
	TopCategoriesLimit      = 3
	ReportRevenueMonths     = 6
	OrderAlertWindow        = 24 * time.Hour
	WeeklyReportOrderWindow = 7 * 24 * time.Hour
)

// Completion budgets for text generation
const (
	DescriptionMaxTokens int32 = 80
	EmailMaxTokens       int32 = 400
	SummaryMaxTokens     int32 = 300
)

const otpCooldownKeyPrefix = "otp:cooldown:"
