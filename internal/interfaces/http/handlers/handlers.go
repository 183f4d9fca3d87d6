package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/interfaces/http/middleware"
	"stock-tracker.backend/internal/interfaces/http/response"
)

// bindJSON decodes the body and answers 400 itself on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ValidationError(c, err)
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return uuid.Nil, false
	}
	return userID, true
}

func idParam(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NotFound(notFound))
		return uuid.Nil, false
	}
	return id, true
}
