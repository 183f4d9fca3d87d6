package entities

import "github.com/shopspring/decimal"

// NotificationType classifies dashboard alerts.
type NotificationType string

const (
	NotificationOrder    NotificationType = "order"
	NotificationLowStock NotificationType = "lowStock"
	NotificationReport   NotificationType = "report"
)

// Notification is a derived dashboard alert. It is recomputed on every read.
type Notification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Time    string           `json:"time"`
}

// DashboardStats summarizes orders and inventory.
type DashboardStats struct {
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalOrders     int64           `json:"totalOrders"`
	PendingOrders   int64           `json:"pendingOrders"`
	CompletedOrders int64           `json:"completedOrders"`
	LowStockItems   int64           `json:"lowStockItems"`
	FulfillmentRate float64         `json:"fulfillmentRate"`
}

// Dashboard is the landing page payload.
type Dashboard struct {
	Stats         DashboardStats `json:"stats"`
	RecentOrders  []*Order       `json:"recentOrders"`
	Notifications []Notification `json:"notifications"`
}
