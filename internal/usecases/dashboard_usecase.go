package usecases

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/domain/repositories"
	"stock-tracker.backend/pkg/utils"
)

// DashboardUsecase assembles the landing page
type DashboardUsecase struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	now         func() time.Time
}

func NewDashboardUsecase(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
) *DashboardUsecase {
	return &DashboardUsecase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// GetDashboard loads stats, recent orders and the user's notifications concurrently.
func (u *DashboardUsecase) GetDashboard(ctx context.Context, userID uuid.UUID) (*entities.Dashboard, error) {
	var (
		stats     *entities.DashboardStats
		inventory *entities.InventorySummary
		recent    []*entities.Order
		alerts    []entities.Notification
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = u.orderRepo.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		inventory, err = u.productRepo.InventorySummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = u.orderRepo.Recent(gctx, RecentOrdersLimit)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = u.GetNotifications(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.LowStockItems = inventory.LowStockCount + inventory.OutOfStockCount
	stats.FulfillmentRate = fulfillmentRate(stats.CompletedOrders, stats.TotalOrders)
	if recent == nil {
		recent = []*entities.Order{}
	}

	return &entities.Dashboard{
		Stats:         *stats,
		RecentOrders:  recent,
		Notifications: alerts,
	}, nil
}

// GetNotifications derives the alerts enabled in the user's settings.
func (u *DashboardUsecase) GetNotifications(ctx context.Context, userID uuid.UUID) ([]entities.Notification, error) {
	now := u.now()

	var (
		user     *entities.User
		orders   []*entities.Order
		products []*entities.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = u.userRepo.GetByID(gctx, userID)
		return err
	})
	g.Go(func() error {
		since := now.Add(-WeeklyReportOrderWindow)
		var err error
		orders, _, err = u.orderRepo.List(gctx, entities.OrderFilter{Since: &since}, utils.PaginationParams{Page: 1})
		return err
	})
	g.Go(func() error {
		var err error
		products, err = u.productRepo.ListAttention(gctx, NotificationLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildNotifications(orders, products, user.Notifications, now), nil
}

// fulfillmentRate is completed over total as a percentage with one decimal.
func fulfillmentRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
