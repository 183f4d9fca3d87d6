package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// OrderStatus represents order states
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusCompleted:
		return "Completed"
	case OrderStatusPending:
		return "Pending"
	case OrderStatusCanceled:
		return "Canceled"
	}
	return string(s)
}

// ParseOrderStatus accepts the enum value or its label.
func ParseOrderStatus(v string) (OrderStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "COMPLETED":
		return OrderStatusCompleted, true
	case "PENDING":
		return OrderStatusPending, true
	case "CANCELED", "CANCELLED":
		return OrderStatusCanceled, true
	}
	return "", false
}

// Customer places orders.
type Customer struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     null.String `json:"email"`
	Phone     null.String `json:"phone"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Order represents a customer order. Read-only over the API.
type Order struct {
	ID           uuid.UUID       `json:"-"`
	OrderNo      string          `json:"id"`
	CustomerID   uuid.UUID       `json:"-"`
	CustomerName string          `json:"customer"`
	Amount       decimal.Decimal `json:"amount"`
	Status       OrderStatus     `json:"-"`
	CreatedAt    time.Time       `json:"date"`
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Search string
	Status *OrderStatus
	Since  *time.Time
}
