package usecases

import (
	"context"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/domain/repositories"
	"stock-tracker.backend/pkg/utils"
)

// OrderUsecase exposes the read-only order ledger
type OrderUsecase struct {
	orderRepo repositories.OrderRepository
}

func NewOrderUsecase(orderRepo repositories.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orderRepo: orderRepo}
}

// ListOrders returns orders newest first
func (u *OrderUsecase) ListOrders(ctx context.Context, filter entities.OrderFilter, pagination utils.PaginationParams) ([]*entities.Order, utils.PaginationMeta, error) {
	orders, total, err := u.orderRepo.List(ctx, filter, pagination)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	if orders == nil {
		orders = []*entities.Order{}
	}
	return orders, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}
