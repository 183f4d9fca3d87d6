package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/interfaces/http/response"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/utils"
)

// MaxImportBytes caps a bulk import upload.
const MaxImportBytes = 10 << 20

// ProductService is the product catalogue.
type ProductService interface {
	ListProducts(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, utils.PaginationMeta, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	CreateProduct(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*entities.Category, error)
	BulkImport(ctx context.Context, rows []entities.ImportRow) (*entities.ImportResult, error)
	ExportProducts(ctx context.Context, filter entities.ProductFilter) (*usecases.ExportCSV, error)
	ImportTemplate() (*usecases.ExportCSV, error)
}

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService ProductService
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts lists products
// GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := utils.ParsePaginationParams(c.Query("page"), c.Query("limit"))

	products, meta, err := h.productService.ListProducts(c.Request.Context(), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, paginated(presentProducts(products), meta))
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, usecases.MsgProductNotFound)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, presentProduct(product))
}

// CreateProduct adds a product
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input entities.CreateProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, presentProduct(product))
}

// UpdateProduct applies a partial update
// PATCH /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, usecases.MsgProductNotFound)
	if !ok {
		return
	}
	var input entities.UpdateProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, presentProduct(product))
}

// DeleteProduct removes a product
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, usecases.MsgProductNotFound)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true})
}

// ListCategories lists categories with product counts
// GET /api/v1/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"data": categories})
}

// BulkImport accepts {"products":[...]}, a multipart "file" field, or a raw text/csv body.
// POST /api/v1/products/bulk
func (h *ProductHandler) BulkImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportBytes)

	rows, err := readImportRows(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.productService.BulkImport(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// ExportProducts downloads the filtered catalogue as CSV
// GET /api/v1/products/export
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.productService.ExportProducts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendCSV(c, file)
}

// ImportTemplate downloads a sample import file
// GET /api/v1/products/import-template
func (h *ProductHandler) ImportTemplate(c *gin.Context) {
	file, err := h.productService.ImportTemplate()
	if err != nil {
		response.Error(c, err)
		return
	}
	sendCSV(c, file)
}

func sendCSV(c *gin.Context, file *usecases.ExportCSV) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", file.Content)
}

type bulkImportRequest struct {
	Products []map[string]interface{} `json:"products"`
}

func readImportRows(c *gin.Context) ([]entities.ImportRow, error) {
	switch c.ContentType() {
	case "multipart/form-data":
		header, err := c.FormFile("file")
		if err != nil {
			return nil, domainerrors.BadRequest("CSV file is required")
		}
		f, err := header.Open()
		if err != nil {
			return nil, domainerrors.BadRequest("CSV file is required")
		}
		defer f.Close()
		return usecases.ParseImportCSV(f)
	case "text/csv":
		return usecases.ParseImportCSV(c.Request.Body)
	}

	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, domainerrors.BadRequest("Invalid request body")
	}
	rows := make([]entities.ImportRow, 0, len(req.Products))
	for _, item := range req.Products {
		rows = append(rows, importRowFromJSON(item))
	}
	return rows, nil
}

func importRowFromJSON(item map[string]interface{}) entities.ImportRow {
	row := make(entities.ImportRow, len(item))
	for k, v := range item {
		key := strings.ToLower(strings.TrimSpace(k))
		switch val := v.(type) {
		case nil:
			row[key] = ""
		case string:
			row[key] = val
		case float64:
			row[key] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			row[key] = strconv.FormatBool(val)
		default:
			row[key] = fmt.Sprint(val)
		}
	}
	return row
}

func parseProductFilter(c *gin.Context) (entities.ProductFilter, error) {
	filter := entities.ProductFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     entities.ProductSortCreatedAt,
		Desc:     true,
	}

	if v := c.Query("status"); v != "" {
		status, ok := entities.ParseProductStatus(v)
		if !ok {
			return filter, domainerrors.Validation("Invalid query", map[string]string{"status": "must be In Stock, Low Stock or Out of Stock"})
		}
		filter.Status = &status
	}

	var err error
	if filter.MinPrice, err = decimalQuery(c, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = decimalQuery(c, "maxPrice"); err != nil {
		return filter, err
	}
	if filter.MinStock, err = intQuery(c, "minStock"); err != nil {
		return filter, err
	}
	if filter.MaxStock, err = intQuery(c, "maxStock"); err != nil {
		return filter, err
	}

	if v := c.Query("sort"); v != "" {
		switch v {
		case entities.ProductSortName, entities.ProductSortPrice, entities.ProductSortStock, entities.ProductSortCreatedAt:
			filter.Sort = v
			filter.Desc = false
		default:
			return filter, domainerrors.Validation("Invalid query", map[string]string{"sort": "must be one of name price stock createdAt"})
		}
	}
	switch strings.ToLower(c.Query("order")) {
	case "":
	case "asc":
		filter.Desc = false
	case "desc":
		filter.Desc = true
	default:
		return filter, domainerrors.Validation("Invalid query", map[string]string{"order": "must be asc or desc"})
	}
	return filter, nil
}

func decimalQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, domainerrors.Validation("Invalid query", map[string]string{key: "must be a number"})
	}
	return &d, nil
}

func intQuery(c *gin.Context, key string) (*int, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, domainerrors.Validation("Invalid query", map[string]string{key: "must be a whole number"})
	}
	return &n, nil
}
