package usecases

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/pkg/utils"
)

// BuildNotifications derives dashboard alerts from recent orders and
// attention products. orders should cover at least the last week; products
// are expected emptiest first. Nothing here is persisted.
func BuildNotifications(
	orders []*entities.Order,
	products []*entities.Product,
	settings entities.NotificationSettings,
	now time.Time,
) []entities.Notification {
	out := []entities.Notification{}

	if settings.OrderAlerts {
		added := 0
		for _, o := range orders {
			if added == NotificationLimit {
				break
			}
			if o.Status != entities.OrderStatusPending || now.Sub(o.CreatedAt) > OrderAlertWindow {
				continue
			}
			out = append(out, entities.Notification{
				ID:    "order-" + o.OrderNo,
				Type:  entities.NotificationOrder,
				Title: "New Order",
				Message: fmt.Sprintf("Order #%s from %s - $%s",
					utils.ShortRef(o.OrderNo, 8), o.CustomerName, o.Amount.StringFixed(2)),
				Time: RelativeTime(o.CreatedAt, now),
			})
			added++
		}
	}

	if settings.LowStockWarnings {
		added := 0
		for _, p := range products {
			if added == NotificationLimit {
				break
			}
			if !p.Status.NeedsAttention() {
				continue
			}
			title := "Low Stock Warning"
			if p.Status == entities.ProductStatusOutOfStock {
				title = "Out of Stock"
			}
			out = append(out, entities.Notification{
				ID:      "stock-" + p.ID.String(),
				Type:    entities.NotificationLowStock,
				Title:   title,
				Message: fmt.Sprintf("%s - %d units remaining", p.Name, p.Stock),
				Time:    "Now",
			})
			added++
		}
	}

	if settings.WeeklyReports && now.Weekday() == time.Monday {
		revenue := decimal.Zero
		count := 0
		for _, o := range orders {
			if now.Sub(o.CreatedAt) > WeeklyReportOrderWindow {
				continue
			}
			count++
			if o.Status == entities.OrderStatusCompleted {
				revenue = revenue.Add(o.Amount)
			}
		}
		out = append(out, entities.Notification{
			ID:      "weekly-report",
			Type:    entities.NotificationReport,
			Title:   "Weekly Report Ready",
			Message: fmt.Sprintf("Last week: $%s revenue, %d orders", revenue.StringFixed(2), count),
			Time:    "Today",
		})
	}

	return out
}

// RelativeTime renders t relative to now for notification labels.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}
	return t.UTC().Format("2006-01-02")
}
