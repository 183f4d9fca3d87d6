package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/domain/repositories"
)

// ReportUsecase computes the analytics summary
type ReportUsecase struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	now         func() time.Time
}

func NewReportUsecase(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) *ReportUsecase {
	return &ReportUsecase{orderRepo: orderRepo, productRepo: productRepo, now: time.Now}
}

// GetSummary aggregates inventory, category and revenue figures.
func (u *ReportUsecase) GetSummary(ctx context.Context) (*entities.ReportSummary, error) {
	months := trailingMonths(u.now().UTC(), ReportRevenueMonths)
	since, _ := time.Parse("2006-01", months[0])

	var (
		inventory *entities.InventorySummary
		breakdown []entities.CategoryCount
		stats     *entities.DashboardStats
		monthly   []entities.MonthlyRevenue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inventory, err = u.productRepo.InventorySummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		breakdown, err = u.productRepo.CategoryBreakdown(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = u.orderRepo.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = u.orderRepo.MonthlyRevenue(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if breakdown == nil {
		breakdown = []entities.CategoryCount{}
	}
	inventory.TopCategories = topCategories(breakdown, TopCategoriesLimit)

	aov := decimal.Zero
	if stats.CompletedOrders > 0 {
		aov = stats.TotalRevenue.Div(decimal.NewFromInt(stats.CompletedOrders)).Round(2)
	}

	return &entities.ReportSummary{
		InventorySummary:  *inventory,
		CategoryBreakdown: breakdown,
		MonthlyRevenue:    fillMonths(months, monthly),
		TotalRevenue:      stats.TotalRevenue,
		CompletedOrders:   stats.CompletedOrders,
		AverageOrderValue: aov,
	}, nil
}

// Inventory returns only the stock side, used for AI summaries.
func (u *ReportUsecase) Inventory(ctx context.Context) (*entities.InventorySummary, error) {
	inventory, err := u.productRepo.InventorySummary(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := u.productRepo.CategoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	inventory.TopCategories = topCategories(breakdown, TopCategoriesLimit)
	return inventory, nil
}

// topCategories expects breakdown sorted by count desc, then name.
func topCategories(breakdown []entities.CategoryCount, n int) []string {
	out := []string{}
	for i := 0; i < len(breakdown) && i < n; i++ {
		out = append(out, breakdown[i].Name)
	}
	return out
}

// trailingMonths returns n YYYY-MM keys ending with the month of now.
func trailingMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = first.AddDate(0, i-n+1, 0).Format("2006-01")
	}
	return out
}

func fillMonths(months []string, rows []entities.MonthlyRevenue) []entities.MonthlyRevenue {
	byMonth := make(map[string]entities.MonthlyRevenue, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]entities.MonthlyRevenue, 0, len(months))
	for _, m := range months {
		r, ok := byMonth[m]
		if !ok {
			r = entities.MonthlyRevenue{Month: m, Revenue: decimal.Zero}
		}
		r.Revenue = r.Revenue.Round(2)
		out = append(out, r)
	}
	return out
}
