package repositories

import (
	"context"
	"time"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/pkg/utils"
)

// OrderRepository defines order read operations
type OrderRepository interface {
	List(ctx context.Context, filter entities.OrderFilter, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
	Recent(ctx context.Context, limit int) ([]*entities.Order, error)
	Stats(ctx context.Context) (*entities.DashboardStats, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]entities.MonthlyRevenue, error)
	Create(ctx context.Context, order *entities.Order) error
}

// CustomerRepository is used by seeding.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	List(ctx context.Context) ([]*entities.Customer, error)
}
