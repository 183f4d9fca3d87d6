package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/pkg/utils"
)

func TestOrderHandler_ListOrders(t *testing.T) {
	var gotFilter entities.OrderFilter
	svc := orderServiceStub{listFn: func(_ context.Context, f entities.OrderFilter, p utils.PaginationParams) ([]*entities.Order, utils.PaginationMeta, error) {
		gotFilter = f
		return []*entities.Order{{
			OrderNo:      "ORD-20261015-0001",
			CustomerName: "Acme Ltd",
			Amount:       decimal.RequireFromString("120.50"),
			Status:       entities.OrderStatusCanceled,
			CreatedAt:    time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		}}, utils.CalculateMeta(1, p.Page, p.Limit), nil
	}}
	h := NewOrderHandler(svc)
	r := gin.New()
	r.GET("/orders", h.ListOrders)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/orders?search=acme&status=Cancelled", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"data":[{"id":"ORD-20261015-0001","customer":"Acme Ltd","amount":"120.5","status":"Canceled","date":"2026-10-15T09:00:00Z"}],
		"meta":{"page":1,"limit":1,"totalCount":1,"totalPages":1}
	}`, rec.Body.String())
	assert.Equal(t, "acme", gotFilter.Search)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, entities.OrderStatusCanceled, *gotFilter.Status)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/orders?status=shipped", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
