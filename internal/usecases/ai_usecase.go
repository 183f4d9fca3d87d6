package usecases

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
)

// inventorySource is satisfied by ReportUsecase.
type inventorySource interface {
	Inventory(ctx context.Context) (*entities.InventorySummary, error)
}

// AIUsecase turns catalog data into prompts for the text generator
type AIUsecase struct {
	generator TextGenerator
	reports   inventorySource
}

func NewAIUsecase(generator TextGenerator, reports inventorySource) *AIUsecase {
	return &AIUsecase{generator: generator, reports: reports}
}

// GenerateDescription writes a one or two sentence internal note on how a
// product is used.
func (u *AIUsecase) GenerateDescription(ctx context.Context, input *entities.GenerateDescriptionInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", domainerrors.BadRequest("Product name is required")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = entities.DefaultCategoryName
	}

	prompt := "You are an internal inventory assistant. Write a short internal note, not sales copy: " +
		"one or two sentences on where and how this item is used inside the company. " +
		"Give practical usage, not a technical definition.\n\n" +
		fmt.Sprintf("Product: %s\nCategory: %s", name, category)

	text, err := u.generator.GenerateText(ctx, prompt, DescriptionMaxTokens)
	if err != nil {
		return "", generationFailed("description", err)
	}
	return text, nil
}

// GenerateSupplierEmail drafts a purchase order email with subject and body.
func (u *AIUsecase) GenerateSupplierEmail(ctx context.Context, input *entities.GenerateEmailInput) (string, error) {
	product := strings.TrimSpace(input.ProductName)
	if product == "" || input.Quantity <= 0 {
		return "", domainerrors.BadRequest("Product name and quantity are required")
	}
	supplier := strings.TrimSpace(input.SupplierName)
	if supplier == "" {
		supplier = "Dear Sir/Madam"
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = entities.DefaultUnit
	}

	prompt := "You are a professional purchasing specialist writing order emails to suppliers. " +
		"Keep the tone formal, clear and professional.\n\n" +
		"Write a purchase order email for the product below:\n\n" +
		fmt.Sprintf("Product: %s\nOrder quantity: %d %s\nCurrent stock: %d %s\nSupplier: %s\n\n",
			product, input.Quantity, unit, input.CurrentStock, unit, supplier) +
		"Write the subject line and the email body separately."

	text, err := u.generator.GenerateText(ctx, prompt, EmailMaxTokens)
	if err != nil {
		return "", generationFailed("email", err)
	}
	return text, nil
}

// SummarizeReport analyzes inventory figures. With no figures supplied the
// current inventory is used.
func (u *AIUsecase) SummarizeReport(ctx context.Context, input *entities.SummarizeReportInput) (string, error) {
	var summary entities.InventorySummary
	if input.IsEmpty() {
		current, err := u.reports.Inventory(ctx)
		if err != nil {
			return "", err
		}
		summary = *current
	} else {
		summary = input.Summary()
	}

	prompt := "You are a stock management assistant. Analyze the inventory figures below and write a short, " +
		"focused summary. Highlight what matters and suggest actions where useful.\n\n" +
		"Inventory summary:\n" +
		fmt.Sprintf("- Total products: %d\n", summary.TotalProducts) +
		fmt.Sprintf("- Total stock: %d units\n", summary.TotalStock) +
		fmt.Sprintf("- Low stock warnings: %d products\n", summary.LowStockCount) +
		fmt.Sprintf("- Out of stock: %d products\n", summary.OutOfStockCount) +
		fmt.Sprintf("- Total stock value: $%s\n", summary.TotalStockValue.StringFixed(2)) +
		fmt.Sprintf("- Busiest categories: %s", strings.Join(summary.TopCategories, ", "))

	text, err := u.generator.GenerateText(ctx, prompt, SummaryMaxTokens)
	if err != nil {
		return "", generationFailed("summary", err)
	}
	return text, nil
}

func generationFailed(what string, err error) error {
	return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError,
		"Failed to generate "+what, err)
}
