package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/interfaces/http/response"
)

type SettingsService interface {
	GetSettings(ctx context.Context, userID uuid.UUID) (*entities.Settings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, input *entities.UpdateSettingsInput) (*entities.Settings, error)
}

// SettingsHandler handles profile and notification preferences
type SettingsHandler struct {
	settingsService SettingsService
}

func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// UpdateSettings PATCH /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input entities.UpdateSettingsInput
	if !bindJSON(c, &input) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}
