package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/pkg/jwt"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/redis"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionHeader carries a server-side session id
	SessionHeader = "X-Session-Id"
	// AccessTokenCookie holds the access token for browser clients
	AccessTokenCookie = "token"
	// RefreshTokenCookie holds the refresh token for browser clients
	RefreshTokenCookie = "refresh_token"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"

	refreshTokenType = "refresh"
)

// SessionReader resolves a session id to its stored tokens.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
}

// AuthMiddleware accepts a bearer token, the token cookie or a session id, in that order.
func AuthMiddleware(jwtService *jwt.JWTService, sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString, _ = c.Cookie(AccessTokenCookie)
		}
		if tokenString == "" && sessions != nil {
			if sid := c.GetHeader(SessionHeader); sid != "" {
				session, err := sessions.GetSession(c.Request.Context(), sid)
				if err == nil && session != nil {
					tokenString = session.AccessToken
				} else if err != nil && !redis.IsNil(err) {
					logger.Warn(c.Request.Context(), "Session lookup failed", zap.Error(err))
				}
			}
		}

		if tokenString == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err == nil && claims.TokenType == refreshTokenType {
			err = jwt.ErrInvalidToken
		}
		if err != nil {
			logger.Debug(c.Request.Context(), "Token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID.String()))

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthorizationHeader)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    domainerrors.CodeUnauthorized,
		"message": message,
		"error":   message,
	})
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}
