package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDuplicateSKU       = errors.New("sku already exists")
	ErrOTPNotFound        = errors.New("verification code not found")
	ErrOTPExpired         = errors.New("verification code expired")
	ErrInvalidOTP         = errors.New("invalid verification code")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
	ErrNothingToImport    = errors.New("no valid products to import")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrUpstream           = errors.New("upstream service failed")
)

// Error codes carried in the response envelope
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeGone               = "GONE"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeMaintenance        = "MAINTENANCE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// GenericErrorMessage is returned for any unexpected failure.
const GenericErrorMessage = "Something went wrong"

// AppError represents application error with HTTP status
type AppError struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// Validation carries a field -> message map.
func Validation(message string, fields map[string]string) *AppError {
	e := NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
	e.Fields = fields
	return e
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Gone(message string) *AppError {
	return NewAppError(http.StatusGone, CodeGone, message, ErrTokenExpired)
}

func TooManyRequests(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests, message, ErrTooManyRequests)
}

// InternalError hides err behind the generic message.
func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, GenericErrorMessage, err)
}

// InternalServerError is a 500 with a caller supplied message.
func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, err)
}

// As is errors.As for AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
