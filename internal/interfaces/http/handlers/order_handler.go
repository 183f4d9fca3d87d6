package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/interfaces/http/response"
	"stock-tracker.backend/pkg/utils"
)

// OrderService reads the order ledger.
type OrderService interface {
	ListOrders(ctx context.Context, filter entities.OrderFilter, pagination utils.PaginationParams) ([]*entities.Order, utils.PaginationMeta, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders lists orders newest first
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := entities.OrderFilter{Search: strings.TrimSpace(c.Query("search"))}
	if v := c.Query("status"); v != "" {
		status, ok := entities.ParseOrderStatus(v)
		if !ok {
			response.Error(c, domainerrors.Validation("Invalid query", map[string]string{"status": "must be Completed, Pending or Canceled"}))
			return
		}
		filter.Status = &status
	}
	pagination := utils.ParsePaginationParams(c.Query("page"), c.Query("limit"))

	orders, meta, err := h.orderService.ListOrders(c.Request.Context(), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, paginated(presentOrders(orders), meta))
}
