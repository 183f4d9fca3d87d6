package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/pkg/logger"
)

var registerTagName sync.Once

// UseJSONFieldNames makes validator report fields by their json tag.
func UseJSONFieldNames() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := resolve(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	c.AbortWithStatusJSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
		"error":   message,
	})
}

// ValidationError reports binding failures, per field when the validator says which.
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	Error(c, domainerrors.Validation("Validation failed", fields))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

func resolve(err error) *domainerrors.AppError {
	if appErr, ok := domainerrors.As(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials, "Invalid email or password", err)
	case errors.Is(err, domainerrors.ErrTokenExpired):
		return domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Token has expired", err)
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Unauthorized", err)
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.NewAppError(http.StatusForbidden, domainerrors.CodeForbidden, "Forbidden", err)
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NewAppError(http.StatusNotFound, domainerrors.CodeNotFound, "Not found", err)
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadRequest, err.Error(), err)
	}
	return domainerrors.InternalError(err)
}
