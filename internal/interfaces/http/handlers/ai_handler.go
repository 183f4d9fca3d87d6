package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/interfaces/http/response"
)

// AIService drafts text for products, suppliers and reports.
type AIService interface {
	GenerateDescription(ctx context.Context, input *entities.GenerateDescriptionInput) (string, error)
	GenerateSupplierEmail(ctx context.Context, input *entities.GenerateEmailInput) (string, error)
	SummarizeReport(ctx context.Context, input *entities.SummarizeReportInput) (string, error)
}

type AIHandler struct {
	aiService AIService
}

func NewAIHandler(aiService AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// GenerateDescription POST /api/v1/ai/generate-description
func (h *AIHandler) GenerateDescription(c *gin.Context) {
	var input entities.GenerateDescriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Product name is required"))
		return
	}

	description, err := h.aiService.GenerateDescription(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"description": description})
}

// GenerateEmail POST /api/v1/ai/generate-email
func (h *AIHandler) GenerateEmail(c *gin.Context) {
	var input entities.GenerateEmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Product name and quantity are required"))
		return
	}

	email, err := h.aiService.GenerateSupplierEmail(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": email})
}

// SummarizeReport POST /api/v1/ai/summarize-report
// An empty body summarizes current inventory.
func (h *AIHandler) SummarizeReport(c *gin.Context) {
	var input entities.SummarizeReportInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		response.ValidationError(c, err)
		return
	}

	summary, err := h.aiService.SummarizeReport(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}
